// Package resolver turns a user supplied Reddit link into the v.redd.it base URL of its video.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	errpkg "github.com/veranemoloko/vreddit-downloader/internal/errors"
	"github.com/veranemoloko/vreddit-downloader/internal/transport"
)

const jsonSuffix = ".json"

var (
	directPattern = `https://v\.redd\.it/[a-z0-9]+/?`
	postPattern   = `https://www\.reddit\.com/(r/[A-Za-z0-9][A-Za-z0-9_]{2,20}|user/[A-Za-z0-9_\-]{3,20})/comments/[a-z0-9]+/[^/.]+/?`

	directFull = regexp.MustCompile(`^` + directPattern + `$`)
	directAny  = regexp.MustCompile(directPattern)
	postFull   = regexp.MustCompile(`^` + postPattern + `$`)
)

// IsDirect reports whether rawURL already points at a v.redd.it video.
func IsDirect(rawURL string) bool {
	return directFull.MatchString(rawURL)
}

// IsPost reports whether rawURL is a subreddit or user post page.
func IsPost(rawURL string) bool {
	return postFull.MatchString(rawURL)
}

// IsSupported reports whether Resolve accepts the shape of rawURL. It does no I/O.
func IsSupported(rawURL string) bool {
	return IsDirect(rawURL) || IsPost(rawURL)
}

// Resolver performs at most one GET per call, and only for post pages.
type Resolver struct {
	getter transport.Getter
	logger *slog.Logger
}

func NewResolver(getter transport.Getter, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{getter: getter, logger: logger}
}

// Resolve returns the canonical direct URL (no trailing slash) for rawURL.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	if IsDirect(rawURL) {
		return canonical(rawURL), nil
	}
	if !IsPost(rawURL) {
		return "", fmt.Errorf("%w: %q", errpkg.ErrInvalidURL, rawURL)
	}

	jsonURL := canonical(rawURL) + jsonSuffix
	body, err := r.getter.Get(ctx, jsonURL)
	if err != nil {
		return "", fmt.Errorf("fetch post json: %w", err)
	}

	match := directAny.Find(body)
	if match == nil {
		return "", fmt.Errorf("%w: %s", errpkg.ErrNoMediaFound, rawURL)
	}

	direct := canonical(string(match))
	r.logger.Debug("post resolved", "url", rawURL, "direct_url", direct)
	return direct, nil
}

func canonical(u string) string {
	return strings.TrimRight(u, "/")
}
