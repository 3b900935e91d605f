package service

import "github.com/pkg/errors"

var (
	// ErrUserNotFound 内部用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrMissingSubject 会话中没有身份标识
	ErrMissingSubject = errors.New("missing auth subject")
	// ErrMailDisabled 邮件服务未启用
	ErrMailDisabled = errors.New("mail service disabled")
)
