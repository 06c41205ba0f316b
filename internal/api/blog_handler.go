package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"inkwell/internal/api/middleware"
	"inkwell/internal/richtext"
	"inkwell/internal/store"
	"inkwell/internal/tasks"
)

// BlogHandler 负责文章的读取与写入。
type BlogHandler struct {
	store       blogStore
	pages       pageInvalidator
	asynqClient taskEnqueuer
	events      eventPublisher
	logger      *slog.Logger
}

// NewBlogHandler 构造 BlogHandler。
func NewBlogHandler(blogStore blogStore, pages pageInvalidator, asynqClient taskEnqueuer, events eventPublisher, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{
		store:       blogStore,
		pages:       pages,
		asynqClient: asynqClient,
		events:      events,
		logger:      logger,
	}
}

// blogMetadata 对应创作表单第一阶段的字段校验：
// 标题 3–30、至少一个标签、缩略图必填。
type blogMetadata struct {
	Title     string   `json:"title" binding:"required,min=3,max=30"`
	Tags      []string `json:"tags" binding:"required,min=1,dive,uuid"`
	Thumbnail string   `json:"thumbnail" binding:"required"`
}

type createBlogRequest struct {
	blogMetadata
	Content datatypes.JSON `json:"content" binding:"required"`
	// Path 是提交表单时所在的页面路径，写入后失效其缓存。
	Path string `json:"path"`
}

// CreateBlog 创建一篇文章。内容为空的文档（仅一个空段落）会被拒绝。
func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var req createBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	claims := middleware.SessionFromContext(c)
	if claims == nil {
		AbortUnauthorized(c)
		return
	}

	if empty, err := richtext.IsEmpty(req.Content); err != nil {
		BadRequest(c, "content is not a valid document")
		return
	} else if empty {
		BadRequest(c, "content cannot be empty")
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("user_id", claims.UserID))

	blog, err := h.store.CreateBlog(ctx, store.CreateBlogParams{
		Author:    claims.UserID,
		Title:     req.Title,
		Tags:      req.Tags,
		Content:   req.Content,
		Thumbnail: req.Thumbnail,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("create blog rejected: author not found")
			NotFound(c, "author not found")
			return
		}
		logger.Error("create blog failed", slog.Any("error", err))
		Internal(c, "error creating blog")
		return
	}

	h.invalidate(c, pathOrHome(req.Path))
	h.publish(ctx, logger, BlogEvent{Type: eventBlogCreated, ID: blog.ID, Title: blog.Title, At: time.Now()})

	logger.Info("blog created", slog.String("blog_id", blog.ID))
	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Blog created successfully",
		"data":    gin.H{"id": blog.ID},
	})
}

// FetchBlogs 返回一页文章列表。
func (h *BlogHandler) FetchBlogs(c *gin.Context) {
	page := pageParam(c)

	result, err := h.store.FetchBlogs(c.Request.Context(), page)
	if err != nil {
		middleware.LoggerFromContext(c).Error("fetch blogs failed", slog.Any("error", err))
		Internal(c, "error fetching blogs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Blogs fetched successfully",
		"data":    result.Blogs,
		"hasNext": result.HasNext,
	})
}

// FetchBlog 返回单篇文章。
func (h *BlogHandler) FetchBlog(c *gin.Context) {
	id := c.Param("id")

	blog, err := h.store.FetchBlog(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "blog not found")
			return
		}
		middleware.LoggerFromContext(c).Error("fetch blog failed", slog.Any("error", err))
		Internal(c, "error fetching blog")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Blog fetched successfully",
		"data":    blog,
	})
}

// FetchBlogsOnTag 返回标签命中的一页文章；没有命中是空列表而不是 404。
func (h *BlogHandler) FetchBlogsOnTag(c *gin.Context) {
	tagID := c.Param("id")
	page := pageParam(c)

	result, err := h.store.FetchBlogsOnTag(c.Request.Context(), tagID, page)
	if err != nil {
		middleware.LoggerFromContext(c).Error("fetch blogs on tag failed", slog.Any("error", err))
		Internal(c, "error fetching blogs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Blogs fetched successfully",
		"data":    result.Blogs,
		"hasNext": result.HasNext,
	})
}

type updateBlogRequest struct {
	blogMetadata
	Content datatypes.JSON `json:"content" binding:"required"`
	Path    string         `json:"path"`
}

// UpdateBlog 覆盖四个可变字段；updated_at 由存储层推进。
func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	id := c.Param("id")

	var req updateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if empty, err := richtext.IsEmpty(req.Content); err != nil {
		BadRequest(c, "content is not a valid document")
		return
	} else if empty {
		BadRequest(c, "content cannot be empty")
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("blog_id", id))

	err := h.store.UpdateBlog(ctx, id, store.UpdateBlogParams{
		Title:     req.Title,
		Tags:      req.Tags,
		Content:   req.Content,
		Thumbnail: req.Thumbnail,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "blog not found")
			return
		}
		logger.Error("update blog failed", slog.Any("error", err))
		Internal(c, "error updating blog")
		return
	}

	h.invalidate(c, pathOrHome(req.Path))
	h.invalidate(c, blogReadPath(id))
	h.publish(ctx, logger, BlogEvent{Type: eventBlogUpdated, ID: id, Title: req.Title, At: time.Now()})

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Blog updated successfully",
	})
}

// DeleteBlog 删除文章。目标不存在时返回 404 且不做任何缓存失效。
func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	id := c.Param("id")
	path := pathOrHome(c.Query("path"))

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("blog_id", id))

	if err := h.store.DeleteBlog(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "blog not found")
			return
		}
		logger.Error("delete blog failed", slog.Any("error", err))
		Internal(c, "error deleting blog")
		return
	}

	h.invalidate(c, path)
	h.invalidate(c, blogReadPath(id))
	h.publish(ctx, logger, BlogEvent{Type: eventBlogDeleted, ID: id, At: time.Now()})

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Blog deleted successfully",
	})
}

// invalidate 同步删除缓存键，并投递一个失效任务兜底
// （worker 端重试覆盖 Redis 暂时不可用的窗口）。
func (h *BlogHandler) invalidate(c *gin.Context, path string) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	if h.pages != nil {
		if err := h.pages.Invalidate(ctx, path); err != nil {
			logger.Warn("page invalidation failed", slog.String("path", path), slog.Any("error", err))
		}
	}

	if h.asynqClient == nil {
		return
	}
	task, err := tasks.NewPageInvalidateTask(path, middleware.GetCorrelationID(c))
	if err != nil {
		logger.Warn("build invalidate task failed", slog.Any("error", err))
		return
	}
	if _, err := h.asynqClient.EnqueueContext(ctx, task); err != nil {
		logger.Warn("enqueue invalidate task failed", slog.Any("error", err))
	}
}

func (h *BlogHandler) publish(ctx context.Context, logger *slog.Logger, event BlogEvent) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(ctx, event); err != nil {
		logger.Warn("publish blog event failed", slog.Any("error", err))
	}
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// blogReadPath 是单篇文章读取端点的路径，也是其缓存键。
func blogReadPath(id string) string {
	return "/v1/blogs/read/" + id
}

func pathOrHome(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
