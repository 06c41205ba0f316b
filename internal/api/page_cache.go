package api

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/api/middleware"
)

type pageCache interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Set(ctx context.Context, path string, body []byte) error
}

// cacheBodyWriter 在透传响应的同时留一份副本用于写缓存。
type cacheBodyWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cacheBodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// cachePage 按请求路径缓存 200 的 JSON 响应，命中时直接回放。
// 只挂在路径即可唯一定位实体的只读端点上；写操作通过
// Invalidate 驱逐同一路径，缓存不可用时退化为直查。
func cachePage(pages pageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		logger := middleware.LoggerFromContext(c)

		body, err := pages.Get(c.Request.Context(), path)
		if err != nil {
			logger.Warn("page cache read failed", slog.String("path", path), slog.Any("error", err))
		} else if body != nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		writer := &cacheBodyWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if writer.Status() != http.StatusOK {
			return
		}
		if err := pages.Set(c.Request.Context(), path, writer.body.Bytes()); err != nil {
			logger.Warn("page cache write failed", slog.String("path", path), slog.Any("error", err))
		}
	}
}
