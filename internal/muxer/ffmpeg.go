// Package muxer combines separately downloaded video and audio streams with ffmpeg.
package muxer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	errpkg "github.com/veranemoloko/vreddit-downloader/internal/errors"
)

const outputExt = ".mp4"

// FFmpegMuxer stream-copies its inputs into one container; nothing is re-encoded.
type FFmpegMuxer struct {
	path   string
	logger *slog.Logger
}

// NewFFmpegMuxer returns a new FFmpegMuxer.
// If path is empty, it looks for "ffmpeg" in PATH.
func NewFFmpegMuxer(path string, logger *slog.Logger) *FFmpegMuxer {
	if path == "" {
		path = "ffmpeg"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpegMuxer{path: path, logger: logger}
}

// Available checks if ffmpeg is executable.
func (f *FFmpegMuxer) Available() bool {
	_, err := exec.LookPath(f.path)
	return err == nil
}

// Combine writes videoPath (and audioPath when not empty) into outputTarget and
// returns the final file path. An empty outputTarget means the working directory;
// a directory target gets a random <uuid>.mp4 name. A failed run, or a run that
// leaves no output file, is a *errpkg.MuxError and leaves nothing at the output path.
func (f *FFmpegMuxer) Combine(ctx context.Context, videoPath, audioPath, outputTarget string) (string, error) {
	outPath, err := OutputPath(outputTarget)
	if err != nil {
		return "", err
	}

	args := Args(videoPath, audioPath, outPath)
	cmd := exec.CommandContext(ctx, f.path, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		f.discard(outPath)
		return "", &errpkg.MuxError{Args: args, Output: output.String(), Err: err}
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return "", &errpkg.MuxError{Args: args, Output: output.String(), Err: fmt.Errorf("output missing: %w", err)}
	}
	if info.Size() == 0 {
		f.discard(outPath)
		return "", &errpkg.MuxError{Args: args, Output: output.String(), Err: errors.New("output is empty")}
	}

	f.logger.Debug("streams combined",
		"video", videoPath,
		"audio", audioPath,
		"output", outPath,
		"bytes", info.Size(),
	)
	return outPath, nil
}

// discard removes whatever a failed run left at outPath.
func (f *FFmpegMuxer) discard(outPath string) {
	if err := os.Remove(outPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		f.logger.Warn("failed to remove partial output", "output", outPath, "error", err)
	}
}

// Args builds the ffmpeg argument list: quiet, overwrite, stream copy.
func Args(videoPath, audioPath, outPath string) []string {
	args := []string{"-hide_banner", "-loglevel", "panic", "-y", "-i", videoPath}
	if audioPath != "" {
		args = append(args, "-i", audioPath)
	}
	args = append(args, "-vcodec", "copy")
	if audioPath != "" {
		args = append(args, "-acodec", "copy")
	}
	return append(args, outPath)
}

// OutputPath resolves where Combine writes. Targets that do not exist are treated as file paths.
func OutputPath(target string) (string, error) {
	if target == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		target = wd
	}

	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		return filepath.Join(target, uuid.New().String()+outputExt), nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat output target: %w", err)
	}
	return target, nil
}
