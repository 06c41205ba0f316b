package store

import (
	"errors"

	"gorm.io/gorm"
)

// 每页文章数。查询时多取一条用来判断是否还有下一页。
const BlogPageSize = 9

var (
	// ErrNotFound 表示目标行不存在（作者、文章、标签或用户）。
	ErrNotFound = errors.New("record not found")

	// ErrConflict 表示唯一性冲突（例如重名标签）。
	ErrConflict = errors.New("record already exists")
)

// Store 是依赖注入的数据访问句柄，由进程生命周期持有。
// 不使用任何包级单例或懒初始化标志。
type Store struct {
	db *gorm.DB
}

// New 构造 Store。
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
