package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookpos/pkg/errors"
)

// SessionStore 会话存储
// 设计说明：
// 1. 使用Redis存储用户登录会话
// 2. 支持JWT黑名单（登出后Token立即失效）
// 3. 存储一次性提示消息（flash），渲染后即销毁
// 4. Key设计：session:{user_id}、blacklist:{token}、flash:{user_id}
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SaveSession 保存用户会话
// 记录登录时间、IP等信息，过期时间与Token一致
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("session:%d", userID)

	if err := s.client.HMSet(ctx, key, sessionData).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeRedisError, "保存会话失败")
	}
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeRedisError, "设置会话过期时间失败")
	}
	return nil
}

// GetSession 获取用户会话
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (map[string]string, error) {
	key := fmt.Sprintf("session:%d", userID)

	result, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRedisError, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除用户会话（登出）
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	key := fmt.Sprintf("session:%d", userID)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeRedisError, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单
// TTL取Token剩余有效期即可，过期后黑名单条目自动清理
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)

	if err := s.client.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeRedisError, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeRedisError, "检查黑名单失败")
	}
	return exists > 0, nil
}

// Flash 一次性提示消息
type Flash struct {
	Category string `json:"category"` // success / danger
	Message  string `json:"message"`
}

// flashTTL flash消息最长保留时间，防止无人读取时堆积
const flashTTL = time.Hour

// PushFlash 追加一条提示消息
func (s *SessionStore) PushFlash(ctx context.Context, userID uint, category, message string) error {
	key := fmt.Sprintf("flash:%d", userID)

	data, err := json.Marshal(Flash{Category: category, Message: message})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeRedisError, "序列化提示消息失败")
	}
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeRedisError, "保存提示消息失败")
	}
	if err := s.client.Expire(ctx, key, flashTTL).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeRedisError, "设置提示消息过期时间失败")
	}
	return nil
}

// PopFlashes 取出并清空当前用户的全部提示消息
func (s *SessionStore) PopFlashes(ctx context.Context, userID uint) ([]Flash, error) {
	key := fmt.Sprintf("flash:%d", userID)

	pipe := s.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRedisError, "读取提示消息失败")
	}

	items := rangeCmd.Val()
	flashes := make([]Flash, 0, len(items))
	for _, item := range items {
		var f Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			continue // 跳过损坏的消息
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
