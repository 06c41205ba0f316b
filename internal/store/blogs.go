package store

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"

	"inkwell/internal/database"
)

// Author 是文章内嵌的作者视图。
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// TagItem 是文章内嵌的标签视图。
type TagItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Blog 是折叠后的文章实体：作者与标签列表已经聚合完成。
type Blog struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   datatypes.JSON `json:"content"`
	Thumbnail string         `json:"thumbnail"`
	Author    Author         `json:"author"`
	Tags      []TagItem      `json:"tags"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// BlogPage 是一页文章及其分页信号。
type BlogPage struct {
	Blogs   []*Blog
	HasNext bool
}

// blogRow 对应连接查询展开的一行。
// 标签列来自 LEFT JOIN，可能为 NULL。
type blogRow struct {
	BlogID     string
	Title      string
	Content    datatypes.JSON
	Thumbnail  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	AuthorID   string
	AuthorName string
	TagID      *string
	TagName    *string
}

// blogSelect 连接 users（作者）并通过数组重叠左连 tags。
// 标签数组里悬空的 ID 不会命中任何 tags 行，读取时自然消失。
const blogSelect = `
SELECT b.id AS blog_id, b.title, b.content, b.thumbnail,
       b.created_at, b.updated_at,
       u.id AS author_id, u.username AS author_name,
       t.id AS tag_id, t.name AS tag_name
FROM %s b
INNER JOIN users u ON b.author = u.id
LEFT JOIN tags t ON b.tags && ARRAY[t.id]::uuid[]`

// CreateBlogParams 描述创建文章所需的字段。
type CreateBlogParams struct {
	Author    string
	Title     string
	Tags      []string
	Content   datatypes.JSON
	Thumbnail string
}

// UpdateBlogParams 描述文章的四个可变字段。
type UpdateBlogParams struct {
	Title     string
	Tags      []string
	Content   datatypes.JSON
	Thumbnail string
}

// CreateBlog 插入一篇文章；作者不存在时返回 ErrNotFound。
func (s *Store) CreateBlog(ctx context.Context, params CreateBlogParams) (*database.Blog, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&database.User{}).
		Where("id = ?", params.Author).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check author: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("author %q: %w", params.Author, ErrNotFound)
	}

	blog := database.Blog{
		Title:     params.Title,
		Content:   params.Content,
		Thumbnail: params.Thumbnail,
		Tags:      pq.StringArray(params.Tags),
		AuthorID:  params.Author,
	}
	if err := s.db.WithContext(ctx).Create(&blog).Error; err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return &blog, nil
}

// FetchBlogs 返回一页折叠后的文章，按创建时间倒序。
// page 从 1 开始计数，越界的值按 1 处理。
func (s *Store) FetchBlogs(ctx context.Context, page int) (*BlogPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * BlogPageSize

	// 分页先作用在 blogs 上，再展开连接；多取一篇判断 hasNext。
	sub := fmt.Sprintf(
		"(SELECT * FROM blogs ORDER BY created_at DESC, id LIMIT %d OFFSET %d)",
		BlogPageSize+1, offset,
	)

	var rows []blogRow
	if err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf(blogSelect, sub) + " ORDER BY b.created_at DESC, b.id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch blogs: %w", err)
	}

	blogs := groupBlogRows(rows)
	hasNext := len(blogs) > BlogPageSize
	if hasNext {
		blogs = blogs[:BlogPageSize]
	}
	return &BlogPage{Blogs: blogs, HasNext: hasNext}, nil
}

// FetchBlog 返回一篇折叠后的文章；不存在时返回 ErrNotFound。
func (s *Store) FetchBlog(ctx context.Context, id string) (*Blog, error) {
	var rows []blogRow
	if err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf(blogSelect, "blogs")+" WHERE b.id = ?", id).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch blog %q: %w", id, err)
	}

	blogs := groupBlogRows(rows)
	if len(blogs) == 0 {
		return nil, fmt.Errorf("blog %q: %w", id, ErrNotFound)
	}
	return blogs[0], nil
}

// FetchBlogsOnTag 返回标签数组与给定标签重叠的一页文章。
// 没有命中时返回空页，而不是错误。
func (s *Store) FetchBlogsOnTag(ctx context.Context, tagID string, page int) (*BlogPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * BlogPageSize

	sub := fmt.Sprintf(
		"(SELECT * FROM blogs WHERE tags && ARRAY[?]::uuid[] ORDER BY created_at DESC, id LIMIT %d OFFSET %d)",
		BlogPageSize+1, offset,
	)

	var rows []blogRow
	if err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf(blogSelect, sub)+" ORDER BY b.created_at DESC, b.id", tagID).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch blogs on tag %q: %w", tagID, err)
	}

	blogs := groupBlogRows(rows)
	hasNext := len(blogs) > BlogPageSize
	if hasNext {
		blogs = blogs[:BlogPageSize]
	}
	return &BlogPage{Blogs: blogs, HasNext: hasNext}, nil
}

// UpdateBlog 覆盖四个可变字段并推进 updated_at；目标不存在时返回 ErrNotFound。
func (s *Store) UpdateBlog(ctx context.Context, id string, params UpdateBlogParams) error {
	result := s.db.WithContext(ctx).
		Model(&database.Blog{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":     params.Title,
			"tags":      pq.StringArray(params.Tags),
			"content":   params.Content,
			"thumbnail": params.Thumbnail,
		})
	if result.Error != nil {
		return fmt.Errorf("update blog %q: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("blog %q: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteBlog 删除文章；没有删到任何行时返回 ErrNotFound。
func (s *Store) DeleteBlog(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&database.Blog{})
	if result.Error != nil {
		return fmt.Errorf("delete blog %q: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("blog %q: %w", id, ErrNotFound)
	}
	return nil
}

// FetchThumbnails 返回所有文章的缩略图 URL，供 worker 清理失联对象时比对。
func (s *Store) FetchThumbnails(ctx context.Context) ([]string, error) {
	var urls []string
	if err := s.db.WithContext(ctx).
		Model(&database.Blog{}).
		Where("thumbnail <> ''").
		Pluck("thumbnail", &urls).Error; err != nil {
		return nil, fmt.Errorf("fetch thumbnails: %w", err)
	}
	return urls, nil
}

// groupBlogRows 把连接查询的平铺行折叠为文章实体。
// 零标签的文章会产生一行 NULL 标签，折叠后得到空标签列表而不是被丢掉。
func groupBlogRows(rows []blogRow) []*Blog {
	return foldRows(rows,
		func(r blogRow) string { return r.BlogID },
		func(r blogRow) *Blog {
			return &Blog{
				ID:        r.BlogID,
				Title:     r.Title,
				Content:   r.Content,
				Thumbnail: r.Thumbnail,
				Author:    Author{ID: r.AuthorID, Username: r.AuthorName},
				Tags:      []TagItem{},
				CreatedAt: r.CreatedAt,
				UpdatedAt: r.UpdatedAt,
			}
		},
		func(b *Blog, r blogRow) {
			if r.TagID == nil || r.TagName == nil {
				return
			}
			for _, t := range b.Tags {
				if t.ID == *r.TagID {
					return
				}
			}
			b.Tags = append(b.Tags, TagItem{ID: *r.TagID, Name: *r.TagName})
		},
	)
}
