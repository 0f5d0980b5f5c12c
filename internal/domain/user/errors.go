package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "User not found")

	// ErrNameTaken 用户名已存在
	ErrNameTaken = apperrors.New(apperrors.ErrCodeNameTaken, "User name already exists")

	// ErrEmptyName 用户名为空
	ErrEmptyName = apperrors.New(apperrors.ErrCodeInvalidParams, "用户名不能为空")
)
