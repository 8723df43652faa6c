package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/veranemoloko/vreddit-downloader/internal/storage"
	"github.com/veranemoloko/vreddit-downloader/internal/transport"
)

const (
	videoFileName = "v.mp4"
	audioFileName = "a.m4a"
)

// MediaDownloader fetches the chosen renditions of one video into a scratch directory.
type MediaDownloader struct {
	getter transport.Getter
	logger *slog.Logger
}

// NewMediaDownloader creates a MediaDownloader that issues its GETs through getter.
func NewMediaDownloader(getter transport.Getter, logger *slog.Logger) *MediaDownloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaDownloader{getter: getter, logger: logger}
}

// FetchData downloads directURL/videoToken and, when audioToken is not empty,
// directURL/audioToken into scratchDir. Both GETs run concurrently; the first
// failure cancels the other and is returned. audioPath is empty when no
// audio token was given.
func (d *MediaDownloader) FetchData(ctx context.Context, directURL, scratchDir, videoToken, audioToken string) (videoPath, audioPath string, err error) {
	fs := storage.NewFileStorage(scratchDir)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		path, err := d.fetchTo(ctx, fs, directURL+"/"+videoToken, videoFileName)
		videoPath = path
		return err
	})

	if audioToken != "" {
		g.Go(func() error {
			path, err := d.fetchTo(ctx, fs, directURL+"/"+audioToken, audioFileName)
			audioPath = path
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return videoPath, audioPath, nil
}

func (d *MediaDownloader) fetchTo(ctx context.Context, fs *storage.FileStorage, url, filename string) (string, error) {
	data, err := d.getter.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch rendition: %w", err)
	}

	path, err := fs.WriteFile(filename, data)
	if err != nil {
		return "", err
	}

	d.logger.Debug("rendition saved",
		"url", url,
		"bytes", len(data),
		"file_path", path,
	)
	return path, nil
}
