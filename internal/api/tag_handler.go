package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/api/middleware"
	"inkwell/internal/errcode"
	"inkwell/internal/store"
)

// TagHandler 负责标签的创建与查询。
type TagHandler struct {
	store tagStore
	pages pageInvalidator
}

// NewTagHandler 构造 TagHandler。
func NewTagHandler(tagStore tagStore, pages pageInvalidator) *TagHandler {
	return &TagHandler{store: tagStore, pages: pages}
}

type createTagRequest struct {
	Name string `json:"name" binding:"required,min=3,max=12"`
	Path string `json:"path"`
}

// CreateTag 创建标签；重名（区分大小写）返回 409。
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("tag_name", req.Name))

	tag, err := h.store.CreateTag(ctx, req.Name)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			logger.Info("create tag rejected: name taken", slog.Int("code", errcode.Conflict))
			Conflict(c, "tag already exists")
			return
		}
		logger.Error("create tag failed", slog.Any("error", err))
		Internal(c, "error creating tag")
		return
	}

	if h.pages != nil {
		if err := h.pages.Invalidate(ctx, pathOrHome(req.Path)); err != nil {
			logger.Warn("page invalidation failed", slog.Any("error", err))
		}
	}

	logger.Info("tag created", slog.String("tag_id", tag.ID))
	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Tag created successfully",
		"data":    gin.H{"id": tag.ID, "name": tag.Name},
	})
}

// FetchTag 按 ID 返回标签。
func (h *TagHandler) FetchTag(c *gin.Context) {
	id := c.Param("id")

	tag, err := h.store.FetchTag(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "tag not found")
			return
		}
		middleware.LoggerFromContext(c).Error("fetch tag failed", slog.Any("error", err))
		Internal(c, "error fetching tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Tag fetched successfully",
		"data":    gin.H{"id": tag.ID, "name": tag.Name},
	})
}

// FetchAllTags 返回全部标签。
func (h *TagHandler) FetchAllTags(c *gin.Context) {
	tags, err := h.store.FetchAllTags(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Error("fetch tags failed", slog.Any("error", err))
		Internal(c, "error fetching tags")
		return
	}

	items := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		items = append(items, gin.H{"id": tag.ID, "name": tag.Name})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Tags fetched successfully",
		"data":    items,
	})
}
