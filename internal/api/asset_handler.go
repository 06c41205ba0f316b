package api

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"

	"inkwell/internal/api/middleware"
	"inkwell/internal/storage"
)

// 缩略图上限 4 MiB，与创作表单的前端校验一致。
const maxThumbnailBytes = 4 << 20

// AssetHandler 负责缩略图上传。
type AssetHandler struct {
	Storage   objectStorage
	Logger    *slog.Logger
	ClamdAddr string
}

// NewAssetHandler 返回 AssetHandler 实例。
func NewAssetHandler(storageClient objectStorage, logger *slog.Logger, clamdAddr string) *AssetHandler {
	return &AssetHandler{
		Storage:   storageClient,
		Logger:    logger,
		ClamdAddr: clamdAddr,
	}
}

// UploadThumbnail 上传文章缩略图，返回公开访问地址。
// 对象键为 <ISO 日期>_<原始文件名>；配置了 clamd 时上传前先扫描。
func (h *AssetHandler) UploadThumbnail(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}

	if file.Size > maxThumbnailBytes {
		BadRequest(c, "thumbnail too large")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		BadRequest(c, "thumbnail must be an image")
		return
	}

	if h.ClamdAddr != "" {
		clean, err := h.scanFile(file)
		if err != nil {
			logger.Error("scan thumbnail failed", slog.Any("error", err))
			Internal(c, "failed to scan file")
			return
		}
		if !clean {
			BadRequest(c, "malicious file detected")
			return
		}
	}

	reader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer reader.Close()

	objectKey := storage.ObjectKey(file.Filename, time.Now())
	if _, err := h.Storage.UploadFile(c.Request.Context(), objectKey, reader, file.Size, contentType); err != nil {
		logger.Error("upload thumbnail failed", slog.Any("error", err))
		Internal(c, "failed to upload file")
		return
	}

	url := h.Storage.PublicURL(objectKey)
	logger.Info("thumbnail uploaded", slog.String("object_key", objectKey))
	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "File uploaded successfully",
		"data":    url,
	})
}

func (h *AssetHandler) scanFile(file *multipart.FileHeader) (bool, error) {
	reader, err := file.Open()
	if err != nil {
		return false, err
	}
	defer reader.Close()

	clamdClient := clamd.NewClamd(h.ClamdAddr)
	abortChan := make(chan bool)
	defer close(abortChan)

	scanChan, err := clamdClient.ScanStream(reader, abortChan)
	if err != nil {
		return false, err
	}

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return false, nil
		}
	}
	return true, nil
}
