package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypePageInvalidate = "cache:invalidate"
	TypeAssetSweep     = "assets:sweep"
)

// PageInvalidatePayload 描述需要失效的页面路径。
type PageInvalidatePayload struct {
	Path          string `json:"path"`
	CorrelationID string `json:"correlation_id"`
}

// NewPageInvalidateTask 构造一个页面失效任务。
func NewPageInvalidateTask(path, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PageInvalidatePayload{
		Path:          path,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePageInvalidate, payload), nil
}

// AssetSweepPayload 描述一次失联缩略图清理。
// GraceMinutes 之内新上传的对象不会被清理，避免删掉正在提交的表单引用的图。
type AssetSweepPayload struct {
	GraceMinutes int `json:"grace_minutes"`
}

// NewAssetSweepTask 构造一个对象清理任务。
func NewAssetSweepTask(graceMinutes int) (*asynq.Task, error) {
	payload, err := json.Marshal(AssetSweepPayload{GraceMinutes: graceMinutes})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAssetSweep, payload), nil
}
