// Package manifest reads the rendition list out of a v.redd.it DASH playlist.
package manifest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/veranemoloko/vreddit-downloader/internal/transport"
)

// PlaylistName is appended to the direct URL to locate the playlist.
const PlaylistName = "DASHPlaylist.mpd"

// Renditions holds the raw descriptors of one playlist, in manifest order.
type Renditions struct {
	Video []string
	Audio []string
}

// HasAudio is false for silent videos.
func (r Renditions) HasAudio() bool {
	return len(r.Audio) > 0
}

// Fetcher downloads and scans playlists.
type Fetcher struct {
	getter transport.Getter
	logger *slog.Logger
}

func NewFetcher(getter transport.Getter, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{getter: getter, logger: logger}
}

// Fetch retrieves directURL/DASHPlaylist.mpd and partitions its descriptors.
func (f *Fetcher) Fetch(ctx context.Context, directURL string) (Renditions, error) {
	body, err := f.getter.Get(ctx, PlaylistURL(directURL))
	if err != nil {
		return Renditions{}, fmt.Errorf("fetch playlist: %w", err)
	}

	video, audio := Partition(ExtractDescriptors(string(body)))
	f.logger.Debug("playlist scanned",
		"url", directURL,
		"video", video,
		"audio", audio,
	)
	return Renditions{Video: video, Audio: audio}, nil
}

// PlaylistURL returns the playlist location for a direct URL.
func PlaylistURL(directURL string) string {
	return directURL + "/" + PlaylistName
}
