package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"inkwell/internal/errcode"
	"inkwell/internal/storage"
	"inkwell/internal/tasks"
)

const defaultSweepGrace = 60 * time.Minute

// thumbnailSource 提供当前被引用的缩略图地址。
type thumbnailSource interface {
	FetchThumbnails(ctx context.Context) ([]string, error)
}

// sweepStorage 是清理所需的最小存储面。
type sweepStorage interface {
	ListObjects(ctx context.Context, prefix string, limit int) ([]storage.ObjectMeta, error)
	DeleteObject(ctx context.Context, objectKey string) error
	KeyFromURL(raw string) string
}

// SweepHandler 清理失联的缩略图对象：
// 上传和建档之间被打断的请求会留下没有任何文章引用的对象。
type SweepHandler struct {
	store   thumbnailSource
	storage sweepStorage
	logger  *slog.Logger
}

// NewSweepHandler 构造处理器。
func NewSweepHandler(store thumbnailSource, storageClient sweepStorage, logger *slog.Logger) *SweepHandler {
	return &SweepHandler{store: store, storage: storageClient, logger: logger}
}

// ProcessTask 对比 Bucket 与文章表，删除宽限期之外的未引用对象。
func (h *SweepHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload tasks.AssetSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		h.logger.Error("sweep payload malformed",
			slog.Int("code", errcode.SystemError),
			slog.Any("error", err),
		)
		return nil
	}

	grace := defaultSweepGrace
	if payload.GraceMinutes > 0 {
		grace = time.Duration(payload.GraceMinutes) * time.Minute
	}
	cutoff := time.Now().Add(-grace)

	urls, err := h.store.FetchThumbnails(ctx)
	if err != nil {
		h.logger.Error("fetch referenced thumbnails failed", slog.Any("error", err))
		return err
	}

	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if key := h.storage.KeyFromURL(u); key != "" {
			referenced[key] = struct{}{}
		}
	}

	objects, err := h.storage.ListObjects(ctx, "", 0)
	if err != nil {
		h.logger.Error("list objects failed", slog.Any("error", err))
		return err
	}

	removed := 0
	for _, object := range objects {
		if _, ok := referenced[object.Key]; ok {
			continue
		}
		if object.LastModified.After(cutoff) {
			// 还在宽限期内，可能属于尚未提交的表单。
			continue
		}
		if err := h.storage.DeleteObject(ctx, object.Key); err != nil {
			h.logger.Warn("delete orphaned object failed",
				slog.Int("code", errcode.ResourceMissing),
				slog.String("object_key", object.Key),
				slog.Any("error", err),
			)
			continue
		}
		removed++
	}

	h.logger.Info("asset sweep completed",
		slog.Int("scanned", len(objects)),
		slog.Int("removed", removed),
	)
	return nil
}
