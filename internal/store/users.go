package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"inkwell/internal/auth"
	"inkwell/internal/database"
)

// FetchUser 按 ID 查用户；不存在时返回 ErrNotFound。
func (s *Store) FetchUser(ctx context.Context, id string) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch user %q: %w", id, err)
	}
	return &user, nil
}

// FetchUserByName 按用户名查用户；不存在时返回 ErrNotFound。
func (s *Store) FetchUserByName(ctx context.Context, username string) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch user %q: %w", username, err)
	}
	return &user, nil
}

// EnsureUser 在外部方式首次登录时建档：角色 user、password 为 NULL。
// 已存在时直接返回现有行。
func (s *Store) EnsureUser(ctx context.Context, id, username string) (*database.User, error) {
	var user database.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("lookup user %q: %w", id, err)
	}

	user = database.User{
		ID:       id,
		Username: username,
		Role:     string(auth.RoleUser),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("user %q: %w", username, ErrConflict)
		}
		return nil, fmt.Errorf("create user %q: %w", id, err)
	}
	return &user, nil
}
