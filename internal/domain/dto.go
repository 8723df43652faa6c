package domain

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest represents the request body for queueing a download.
// Empty qualities fall back to the configured defaults.
type CreateTaskRequest struct {
	URL          string `json:"url" validate:"required,vreddit_url"`
	VideoQuality string `json:"video_quality" validate:"omitempty,quality_policy"`
	AudioQuality string `json:"audio_quality" validate:"omitempty,quality_policy"`
}

// TaskResponse represents the response returned for a Task.
type TaskResponse struct {
	ID           uuid.UUID       `json:"task_id"`
	URL          string          `json:"url"`
	Status       TaskStatus      `json:"status"`
	VideoQuality string          `json:"video_quality"`
	AudioQuality string          `json:"audio_quality"`
	Result       *DownloadResult `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
	ErrorKind    string          `json:"error_kind,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewTaskResponse converts a Task for the API.
func NewTaskResponse(t *Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		URL:          t.URL,
		Status:       t.Status,
		VideoQuality: t.VideoQuality,
		AudioQuality: t.AudioQuality,
		Result:       t.Result,
		Error:        t.Error,
		ErrorKind:    t.ErrorKind,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
