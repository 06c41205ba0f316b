package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"inkwell/internal/database"
)

// CreateTag 创建标签；名称区分大小写，重名返回 ErrConflict。
func (s *Store) CreateTag(ctx context.Context, name string) (*database.Tag, error) {
	var existing database.Tag
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	switch {
	case err == nil:
		return nil, fmt.Errorf("tag %q: %w", name, ErrConflict)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("check tag %q: %w", name, err)
	}

	tag := database.Tag{Name: name}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		// 并发创建可能越过上面的预检查，唯一索引兜底。
		if isDuplicate(err) {
			return nil, fmt.Errorf("tag %q: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("create tag %q: %w", name, err)
	}
	return &tag, nil
}

// FetchTag 按 ID 查标签；不存在时返回 ErrNotFound。
func (s *Store) FetchTag(ctx context.Context, id string) (*database.Tag, error) {
	var tag database.Tag
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch tag %q: %w", id, err)
	}
	return &tag, nil
}

// FetchTagByName 按名称查标签；不存在时返回 ErrNotFound。
func (s *Store) FetchTagByName(ctx context.Context, name string) (*database.Tag, error) {
	var tag database.Tag
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch tag %q: %w", name, err)
	}
	return &tag, nil
}

// FetchAllTags 返回全部标签，按名称排序。
func (s *Store) FetchAllTags(ctx context.Context) ([]database.Tag, error) {
	var tags []database.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}
	return tags, nil
}
