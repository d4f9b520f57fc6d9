package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一键冲突错误
// GORM v2的translate error在部分驱动版本下不生效，
// 因此同时检查MySQL错误消息中的"Duplicate entry"
func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义LIKE模式中的通配符
// 用户输入的%和_必须按字面匹配，否则"100%"会匹配所有记录
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
