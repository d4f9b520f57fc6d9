package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookpos/pkg/errors"
)

// fakeUserRepo 内存账号仓储
type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	u.ID = uint(len(r.users) + 1)
	r.users[u.Username] = u
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()

	hashed, err := HashPassword("chebet05")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, NewUser("Brenda B", hashed)))

	svc := NewService(repo)

	t.Run("正确凭证登录成功", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "Brenda B", "chebet05")
		require.NoError(t, err)
		assert.Equal(t, "Brenda B", u.Username)
	})

	t.Run("密码错误返回统一凭证错误", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "Brenda B", "wrong-password")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("用户不存在返回同样的凭证错误", func(t *testing.T) {
		// 不能从错误信息区分"用户不存在"和"密码错误"
		_, err := svc.Authenticate(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestHashPassword(t *testing.T) {
	h1, err := HashPassword("secret")
	require.NoError(t, err)
	h2, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, "secret", h1, "不能明文存储")
	assert.NotEqual(t, h1, h2, "bcrypt每次加盐应得到不同哈希")
}
