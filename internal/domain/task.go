package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is one queued download as seen by the HTTP API.
type Task struct {
	ID           uuid.UUID       `json:"id"`
	URL          string          `json:"url"`
	VideoQuality string          `json:"video_quality"`
	AudioQuality string          `json:"audio_quality"`
	Status       TaskStatus      `json:"status"`
	Result       *DownloadResult `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
	ErrorKind    string          `json:"error_kind,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IsFinished reports whether the task reached a terminal status.
func (t *Task) IsFinished() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}
