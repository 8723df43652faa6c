package domain

import "github.com/veranemoloko/vreddit-downloader/internal/quality"

// DownloadRequest is the input of one orchestration run.
type DownloadRequest struct {
	URL string
	// Output is a file path or a directory; empty means the working directory.
	Output string
	Video  quality.Policy
	Audio  quality.Policy
}

// DownloadResult describes a fully muxed file on disk.
type DownloadResult struct {
	Path         string `json:"path"`
	VideoQuality string `json:"video_quality"`
	// AudioQuality is empty for silent videos.
	AudioQuality string `json:"audio_quality,omitempty"`
}

// HasAudio reports whether an audio track was muxed in.
func (r DownloadResult) HasAudio() bool {
	return r.AudioQuality != ""
}
