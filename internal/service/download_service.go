package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/veranemoloko/vreddit-downloader/internal/config"
	"github.com/veranemoloko/vreddit-downloader/internal/domain"
	errpkg "github.com/veranemoloko/vreddit-downloader/internal/errors"
	"github.com/veranemoloko/vreddit-downloader/internal/manifest"
	"github.com/veranemoloko/vreddit-downloader/internal/metrics"
	"github.com/veranemoloko/vreddit-downloader/internal/muxer"
	"github.com/veranemoloko/vreddit-downloader/internal/quality"
	"github.com/veranemoloko/vreddit-downloader/internal/resolver"
	"github.com/veranemoloko/vreddit-downloader/internal/storage"
	"github.com/veranemoloko/vreddit-downloader/internal/transport"
	"github.com/veranemoloko/vreddit-downloader/internal/worker"
)

type URLResolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

type MetadataFetcher interface {
	Fetch(ctx context.Context, directURL string) (manifest.Renditions, error)
}

type RenditionDownloader interface {
	FetchData(ctx context.Context, directURL, scratchDir, videoToken, audioToken string) (videoPath, audioPath string, err error)
}

type Combiner interface {
	Combine(ctx context.Context, videoPath, audioPath, outputTarget string) (string, error)
}

// Deps are the collaborators of a DownloadService.
type Deps struct {
	Resolver   URLResolver
	Fetcher    MetadataFetcher
	Downloader RenditionDownloader
	Combiner   Combiner
	// TempDir is the parent of scratch directories; empty means os.TempDir.
	TempDir string
}

// DownloadService runs the whole resolve, select, fetch and mux pipeline for one request.
type DownloadService struct {
	deps   Deps
	logger *slog.Logger
}

// NewDownloadService creates a DownloadService from explicit collaborators.
func NewDownloadService(deps Deps, logger *slog.Logger) *DownloadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DownloadService{deps: deps, logger: logger}
}

// NewDownloadServiceFromConfig wires the HTTP transport, ffmpeg and the scratch
// location described by cfg.
func NewDownloadServiceFromConfig(cfg *config.Config, logger *slog.Logger) *DownloadService {
	if logger == nil {
		logger = slog.Default()
	}
	client := transport.NewClient(transport.Options{
		HTTPClient: &http.Client{Timeout: cfg.DownloadTimeout},
		UserAgent:  cfg.UserAgent,
		MaxBytes:   cfg.MaxFileSize,
		Logger:     logger,
	})
	return NewDownloadService(Deps{
		Resolver:   resolver.NewResolver(client, logger),
		Fetcher:    manifest.NewFetcher(client, logger),
		Downloader: worker.NewMediaDownloader(client, logger),
		Combiner:   muxer.NewFFmpegMuxer(cfg.FFmpegPath, logger),
		TempDir:    cfg.TempDir,
	}, logger)
}

// Download runs one request to completion. On success the returned path is a
// fully muxed file; on failure nothing is returned and the error is a
// *StageError wrapping the original cause. The scratch directory is removed
// before Download returns on every path.
func (s *DownloadService) Download(ctx context.Context, req domain.DownloadRequest) (result *domain.DownloadResult, err error) {
	started := time.Now()
	stage := StageStart
	logger := s.logger.With("url", req.URL)
	metrics.DownloadsTotal.Inc()

	defer func() {
		if err == nil {
			return
		}
		metrics.DownloadsFailed.WithLabelValues(string(stage), errpkg.Kind(err)).Inc()
		logger.Error("download failed", "stage", stage, "error_kind", errpkg.Kind(err), "error", err)
		result, err = nil, &StageError{Stage: stage, Err: err}
	}()

	scratch, err := storage.NewScratch(s.deps.TempDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := scratch.Remove(); rmErr != nil {
			logger.Warn("failed to remove scratch dir", "dir", scratch.Dir(), "error", rmErr)
		}
	}()

	advance := func(next Stage, args ...any) {
		stage = next
		logger.Debug("stage reached", append([]any{"stage", next}, args...)...)
	}

	directURL, err := s.deps.Resolver.Resolve(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	advance(StageURLResolved, "direct_url", directURL)

	renditions, err := s.deps.Fetcher.Fetch(ctx, directURL)
	if err != nil {
		return nil, err
	}
	advance(StageMetadataFetched, "video", len(renditions.Video), "audio", len(renditions.Audio))

	videoToken, audioToken, err := selectRenditions(renditions, req.Video, req.Audio, logger)
	if err != nil {
		return nil, err
	}
	advance(StageQualitySelected, "video_quality", videoToken, "audio_quality", audioToken)

	videoPath, audioPath, err := s.deps.Downloader.FetchData(ctx, directURL, scratch.Dir(), videoToken, audioToken)
	if err != nil {
		return nil, err
	}
	advance(StageDownloaded)

	outPath, err := s.deps.Combiner.Combine(ctx, videoPath, audioPath, req.Output)
	if err != nil {
		return nil, err
	}
	advance(StageCombined, "output", outPath)

	duration := time.Since(started)
	metrics.DownloadsSuccess.Inc()
	metrics.DownloadDuration.Observe(duration.Seconds())
	if info, statErr := os.Stat(outPath); statErr == nil {
		metrics.DownloadBytes.Add(float64(info.Size()))
	}
	advance(StageDone)

	logger.Info("download completed",
		"output", outPath,
		"video_quality", videoToken,
		"audio_quality", audioToken,
		"duration", duration,
	)
	return &domain.DownloadResult{
		Path:         outPath,
		VideoQuality: videoToken,
		AudioQuality: audioToken,
	}, nil
}

// selectRenditions returns the manifest tokens to fetch. audioToken is empty for
// silent videos. A legacy embedded audio track is taken verbatim without running
// the audio policy. Nil policies mean Highest.
func selectRenditions(r manifest.Renditions, video, audio quality.Policy, logger *slog.Logger) (videoToken, audioToken string, err error) {
	if video == nil {
		video = quality.Highest{}
	}
	if audio == nil {
		audio = quality.Highest{}
	}

	videoOpts, skipped := manifest.VideoOptions(r.Video)
	if len(skipped) > 0 {
		logger.Debug("unparsable video descriptors skipped", "descriptors", skipped)
	}
	n, err := quality.Select(videoOpts.Values(), video)
	if err != nil {
		return "", "", fmt.Errorf("select video (%s): %w", video, err)
	}
	videoToken, _ = videoOpts.Token(n)

	if !r.HasAudio() {
		return videoToken, "", nil
	}
	if manifest.IsEmbeddedAudio(r.Audio[0]) {
		return videoToken, r.Audio[0], nil
	}

	audioOpts, skipped := manifest.AudioOptions(r.Audio)
	if len(skipped) > 0 {
		logger.Debug("unparsable audio descriptors skipped", "descriptors", skipped)
	}
	n, err = quality.Select(audioOpts.Values(), audio)
	if err != nil {
		return "", "", fmt.Errorf("select audio (%s): %w", audio, err)
	}
	audioToken, _ = audioOpts.Token(n)
	return videoToken, audioToken, nil
}
