package gormdb

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// - mysql 1062: Duplicate entry 'xxx' for key 'yyy'
// - sqlite: UNIQUE constraint failed: users.name_key
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// GORM v2的错误判断(需开启TranslateError)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容检查:错误信息
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// likeEscaper 转义LIKE通配符,配合 ESCAPE '!' 使用
// 不用反斜杠:mysql字符串字面量里反斜杠本身需要转义,sqlite不需要
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike 转义关键词中的 % _ !
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
