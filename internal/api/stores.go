package api

import (
	"context"
	"io"
	"time"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"

	"inkwell/internal/database"
	"inkwell/internal/store"
)

// 处理器只依赖这些窄接口，生产实现是 *store.Store 等；测试用假实现。

type blogStore interface {
	CreateBlog(ctx context.Context, params store.CreateBlogParams) (*database.Blog, error)
	FetchBlogs(ctx context.Context, page int) (*store.BlogPage, error)
	FetchBlog(ctx context.Context, id string) (*store.Blog, error)
	FetchBlogsOnTag(ctx context.Context, tagID string, page int) (*store.BlogPage, error)
	UpdateBlog(ctx context.Context, id string, params store.UpdateBlogParams) error
	DeleteBlog(ctx context.Context, id string) error
}

type tagStore interface {
	CreateTag(ctx context.Context, name string) (*database.Tag, error)
	FetchTag(ctx context.Context, id string) (*database.Tag, error)
	FetchAllTags(ctx context.Context) ([]database.Tag, error)
}

type userStore interface {
	FetchUser(ctx context.Context, id string) (*database.User, error)
	FetchUserByName(ctx context.Context, username string) (*database.User, error)
	EnsureUser(ctx context.Context, id, username string) (*database.User, error)
}

type pageInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type objectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	PublicURL(objectKey string) string
}

type eventPublisher interface {
	Publish(ctx context.Context, event BlogEvent) error
}

// BlogEvent 是写操作后广播给在线客户端的消息。
type BlogEvent struct {
	Type  string    `json:"type"`
	ID    string    `json:"id"`
	Title string    `json:"title,omitempty"`
	At    time.Time `json:"at"`
}
