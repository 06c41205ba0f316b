package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"inkwell/internal/cache"
	"inkwell/internal/errcode"
	"inkwell/internal/tasks"
)

// InvalidateHandler 消费页面失效任务。
type InvalidateHandler struct {
	pages  *cache.Pages
	logger *slog.Logger
}

// NewInvalidateHandler 构造处理器。
func NewInvalidateHandler(pages *cache.Pages, logger *slog.Logger) *InvalidateHandler {
	return &InvalidateHandler{pages: pages, logger: logger}
}

// ProcessTask 使指定路径的缓存输出失效。
// 返回错误会触发 asynq 重试，覆盖 Redis 暂时不可用的窗口。
func (h *InvalidateHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload tasks.PageInvalidatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// 载荷损坏没有重试价值，记录后吞掉。
		h.logger.Error("invalidate payload malformed",
			slog.Int("code", errcode.SystemError),
			slog.Any("error", err),
		)
		return nil
	}

	log := h.logger.With(
		slog.String("path", payload.Path),
		slog.String("correlation_id", payload.CorrelationID),
	)

	if err := h.pages.Invalidate(ctx, payload.Path); err != nil {
		log.Error("page invalidation failed", slog.Any("error", err))
		return fmt.Errorf("invalidate %q: %w", payload.Path, err)
	}

	log.Info("page invalidated")
	return nil
}
