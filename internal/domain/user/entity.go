package user

import (
	"strings"
	"time"
)

// User 用户实体（聚合根）
// 设计说明：
// 1. Name在所有用户中唯一，比较前先去除首尾空白（"Alice" 与 "  Alice  " 视为同名）
// 2. 用户创建后不提供修改和删除（与图书不同，这是有意为之）
type User struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// name必须是NormalizeName处理后的值
func NewUser(name string) *User {
	return &User{
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// NormalizeName 规范化用户名：去除首尾空白后校验
// 全为空白的名字无论多长都不合法；不限制长度，比较区分大小写
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}
