package config

import (
	"fmt"
	"time"

	"github.com/veranemoloko/vreddit-downloader/internal/quality"
)

// Config holds all application configuration settings.
type Config struct {
	Environment string `envconfig:"VRD_ENV" default:"development"`

	HTTPPort    int           `envconfig:"VRD_HTTP_PORT" default:"8080"`
	HTTPTimeout time.Duration `envconfig:"VRD_HTTP_TIMEOUT" default:"15s"`

	WorkerPoolSize  int           `envconfig:"VRD_WORKER_POOL_SIZE" default:"2"`
	QueueSize       int           `envconfig:"VRD_QUEUE_SIZE" default:"100"`
	DownloadTimeout time.Duration `envconfig:"VRD_DOWNLOAD_TIMEOUT" default:"5m"`
	MaxFileSize     int64         `envconfig:"VRD_MAX_FILE_SIZE" default:"536870912"`

	DownloadDir string `envconfig:"VRD_DOWNLOAD_DIR" default:"./downloads"`
	StateFile   string `envconfig:"VRD_STATE_FILE" default:"./state.json"`
	// TempDir is the parent of per-download scratch directories; empty means os.TempDir.
	TempDir string `envconfig:"VRD_TEMP_DIR"`

	FFmpegPath string `envconfig:"VRD_FFMPEG_PATH" default:"ffmpeg"`
	UserAgent  string `envconfig:"VRD_USER_AGENT" default:"vreddit-downloader/1.0"`

	VideoQuality string `envconfig:"VRD_VIDEO_QUALITY" default:"highest"`
	AudioQuality string `envconfig:"VRD_AUDIO_QUALITY" default:"highest"`

	ShutdownTimeout time.Duration `envconfig:"VRD_SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel  string `envconfig:"VRD_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"VRD_LOG_FORMAT" default:"json"`
}

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("worker pool size must be positive: %d", c.WorkerPoolSize)
	}

	if c.QueueSize <= 0 {
		return fmt.Errorf("queue size must be positive: %d", c.QueueSize)
	}

	if c.DownloadTimeout <= 0 {
		return fmt.Errorf("download timeout must be positive: %s", c.DownloadTimeout)
	}

	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive: %d", c.MaxFileSize)
	}

	if c.DownloadDir == "" {
		return fmt.Errorf("download directory cannot be empty")
	}
	if c.StateFile == "" {
		return fmt.Errorf("state file cannot be empty")
	}
	if c.FFmpegPath == "" {
		return fmt.Errorf("ffmpeg path cannot be empty")
	}

	if _, err := quality.Parse(c.VideoQuality); err != nil {
		return fmt.Errorf("video quality: %w", err)
	}
	if _, err := quality.Parse(c.AudioQuality); err != nil {
		return fmt.Errorf("audio quality: %w", err)
	}

	return nil
}

// DefaultPolicies returns the parsed default video and audio policies.
// Call only on a validated Config.
func (c *Config) DefaultPolicies() (video, audio quality.Policy) {
	return quality.MustParse(c.VideoQuality), quality.MustParse(c.AudioQuality)
}
