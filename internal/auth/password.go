package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrWrongAuthMethod 表示该账号由外部登录方式创建（password 为 NULL），
	// 不允许口令登录。
	ErrWrongAuthMethod = errors.New("wrong authentication method")

	// ErrPasswordMismatch 表示口令校验失败。
	ErrPasswordMismatch = errors.New("password does not match")
)

// HashPassword 使用 bcrypt 生成密码哈希。
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword 校验提交的口令是否匹配存储值。
// 存储值为 bcrypt 哈希（$2 前缀，由 admin CLI 写入）时走 bcrypt 比较；
// 历史数据是明文口令，退化为常数时间逐字节比较。
func VerifyPassword(stored *string, submitted string) error {
	if stored == nil {
		return ErrWrongAuthMethod
	}
	if strings.HasPrefix(*stored, "$2") {
		if bcrypt.CompareHashAndPassword([]byte(*stored), []byte(submitted)) != nil {
			return ErrPasswordMismatch
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(*stored), []byte(submitted)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
