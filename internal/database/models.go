package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 表示系统中的账号信息。
// ID 可能来自外部登录提供方的 subject，因此用字符串主键而不是自增 ID。
// Password 为 NULL 表示账号通过外部方式创建，不允许口令登录。
type User struct {
	ID       string  `gorm:"primaryKey;size:255"`
	Username string  `gorm:"uniqueIndex;size:64;not null"`
	Password *string `gorm:"size:255"`
	Role     string  `gorm:"size:32;not null;default:user"`
}

// BeforeCreate 在缺省时生成 UUID 主键。
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Tag 表示文章标签。名称唯一且只增不改。
type Tag struct {
	ID   string `gorm:"primaryKey;type:uuid"`
	Name string `gorm:"uniqueIndex;size:12;not null"`
}

func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Blog 表示一篇文章。
// Tags 直接保存标签 ID 数组（uuid[]），不走关联表；
// 读取时通过数组重叠查询再折叠回嵌套结构。
type Blog struct {
	ID        string         `gorm:"primaryKey;type:uuid"`
	Title     string         `gorm:"size:30;not null"`
	Content   datatypes.JSON `gorm:"type:jsonb;not null"`
	Thumbnail string         `gorm:"size:512"`
	Tags      pq.StringArray `gorm:"type:uuid[]"`
	AuthorID  string         `gorm:"column:author;size:255;not null;index"`
	Author    User           `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Blog) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
