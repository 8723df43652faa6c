package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranemoloko/vreddit-downloader/internal/domain"
	errpkg "github.com/veranemoloko/vreddit-downloader/internal/errors"
	"github.com/veranemoloko/vreddit-downloader/internal/manifest"
	"github.com/veranemoloko/vreddit-downloader/internal/quality"
	"github.com/veranemoloko/vreddit-downloader/internal/resolver"
	"github.com/veranemoloko/vreddit-downloader/internal/worker"
)

const testPlaylist = `<MPD><Period>
<AdaptationSet>
<Representation><BaseURL>DASH_240.mp4</BaseURL></Representation>
<Representation><BaseURL>DASH_480.mp4</BaseURL></Representation>
<Representation><BaseURL>DASH_1080.mp4</BaseURL></Representation>
</AdaptationSet>
<AdaptationSet>
<Representation><BaseURL>DASH_AUDIO_64.mp4</BaseURL></Representation>
<Representation><BaseURL>DASH_AUDIO_128.mp4</BaseURL></Representation>
</AdaptationSet>
</Period></MPD>`

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeTempDir(t *testing.T, prefix string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

type fakeGetter struct {
	mu     sync.Mutex
	bodies map[string]string
	calls  []string
}

func (g *fakeGetter) Get(ctx context.Context, url string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, url)
	body, ok := g.bodies[url]
	if !ok {
		return nil, &errpkg.TransportError{URL: url, StatusCode: 404}
	}
	return []byte(body), nil
}

func (g *fakeGetter) called(url string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.calls {
		if c == url {
			return true
		}
	}
	return false
}

// fakeCombiner checks its inputs exist while the scratch dir is alive and writes
// their concatenation to the output.
type fakeCombiner struct {
	err        error
	videoPath  string
	audioPath  string
	videoBody  string
	audioBody  string
	calls      int
	scratchDir string
}

func (c *fakeCombiner) Combine(ctx context.Context, videoPath, audioPath, outputTarget string) (string, error) {
	c.calls++
	c.videoPath, c.audioPath = videoPath, audioPath
	c.scratchDir = filepath.Dir(videoPath)

	data, err := os.ReadFile(videoPath)
	if err != nil {
		return "", err
	}
	c.videoBody = string(data)
	if audioPath != "" {
		data, err := os.ReadFile(audioPath)
		if err != nil {
			return "", err
		}
		c.audioBody = string(data)
	}

	if c.err != nil {
		return "", c.err
	}
	out := filepath.Join(outputTarget, "out.mp4")
	if err := os.WriteFile(out, []byte(c.videoBody+c.audioBody), 0o644); err != nil {
		return "", err
	}
	return out, nil
}

type harness struct {
	getter   *fakeGetter
	combiner *fakeCombiner
	tempDir  string
	outDir   string
	svc      *DownloadService
}

func newHarness(t *testing.T, bodies map[string]string) *harness {
	h := &harness{
		getter:   &fakeGetter{bodies: bodies},
		combiner: &fakeCombiner{},
		tempDir:  makeTempDir(t, "download_scratch_*"),
		outDir:   makeTempDir(t, "download_out_*"),
	}
	logger := newTestLogger()
	h.svc = NewDownloadService(Deps{
		Resolver:   resolver.NewResolver(h.getter, logger),
		Fetcher:    manifest.NewFetcher(h.getter, logger),
		Downloader: worker.NewMediaDownloader(h.getter, logger),
		Combiner:   h.combiner,
		TempDir:    h.tempDir,
	}, logger)
	return h
}

func (h *harness) request(url string, video, audio quality.Policy) domain.DownloadRequest {
	return domain.DownloadRequest{URL: url, Output: h.outDir, Video: video, Audio: audio}
}

func assertScratchRemoved(t *testing.T, h *harness) {
	t.Helper()
	entries, err := os.ReadDir(h.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directories must be removed")
}

func standardBodies() map[string]string {
	return map[string]string{
		"https://v.redd.it/abc123/DASHPlaylist.mpd":  testPlaylist,
		"https://v.redd.it/abc123/DASH_240.mp4":      "v240",
		"https://v.redd.it/abc123/DASH_480.mp4":      "v480",
		"https://v.redd.it/abc123/DASH_1080.mp4":     "v1080",
		"https://v.redd.it/abc123/DASH_AUDIO_64.mp4":  "a64",
		"https://v.redd.it/abc123/DASH_AUDIO_128.mp4": "a128",
	}
}

func TestDownload_HighestVideoLowestAudio(t *testing.T) {
	h := newHarness(t, standardBodies())

	result, err := h.svc.Download(context.Background(), h.request("https://v.redd.it/abc123/", quality.Highest{}, quality.Lowest{}))
	require.NoError(t, err)

	assert.Equal(t, "DASH_1080.mp4", result.VideoQuality)
	assert.Equal(t, "DASH_AUDIO_64.mp4", result.AudioQuality)
	assert.Equal(t, filepath.Join(h.outDir, "out.mp4"), result.Path)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "v1080a64", string(data))

	assert.Equal(t, 1, h.combiner.calls)
	assert.Equal(t, "v1080", h.combiner.videoBody)
	assert.Equal(t, "a64", h.combiner.audioBody)
	assert.Equal(t, h.tempDir, filepath.Dir(h.combiner.scratchDir))

	assert.True(t, h.getter.called("https://v.redd.it/abc123/DASH_1080.mp4"))
	assert.True(t, h.getter.called("https://v.redd.it/abc123/DASH_AUDIO_64.mp4"))
	assert.False(t, h.getter.called("https://v.redd.it/abc123/DASH_240.mp4"))
	assertScratchRemoved(t, h)
}

func TestDownload_ClosestPolicies(t *testing.T) {
	h := newHarness(t, standardBodies())

	result, err := h.svc.Download(context.Background(), h.request("https://v.redd.it/abc123", quality.Closest{Value: 600}, quality.Closest{Value: 100}))
	require.NoError(t, err)

	assert.Equal(t, "DASH_480.mp4", result.VideoQuality)
	assert.Equal(t, "DASH_AUDIO_128.mp4", result.AudioQuality)
}

func TestDownload_ResolvesPostURL(t *testing.T) {
	bodies := standardBodies()
	bodies["https://www.reddit.com/r/videos/comments/xyz/title.json"] = `{"url": "https://v.redd.it/abc123"}`
	h := newHarness(t, bodies)

	result, err := h.svc.Download(context.Background(), h.request("https://www.reddit.com/r/videos/comments/xyz/title/", quality.Lowest{}, quality.Highest{}))
	require.NoError(t, err)

	assert.Equal(t, "DASH_240.mp4", result.VideoQuality)
	assert.Equal(t, "DASH_AUDIO_128.mp4", result.AudioQuality)
}

func TestDownload_EmbeddedAudioSkipsSelection(t *testing.T) {
	h := newHarness(t, map[string]string{
		"https://v.redd.it/old/DASHPlaylist.mpd": `<MPD><BaseURL>DASH_720.mp4</BaseURL><BaseURL>DASH_audio.mp4</BaseURL></MPD>`,
		"https://v.redd.it/old/DASH_720.mp4":     "v720",
		"https://v.redd.it/old/DASH_audio.mp4":   "embedded",
	})

	// Exact:999 would fail if the audio policy were consulted.
	result, err := h.svc.Download(context.Background(), h.request("https://v.redd.it/old", quality.Highest{}, quality.Exact{Value: 999}))
	require.NoError(t, err)

	assert.Equal(t, "DASH_720.mp4", result.VideoQuality)
	assert.Equal(t, "DASH_audio.mp4", result.AudioQuality)
	assert.Equal(t, "embedded", h.combiner.audioBody)
}

func TestDownload_SilentVideo(t *testing.T) {
	h := newHarness(t, map[string]string{
		"https://v.redd.it/quiet/DASHPlaylist.mpd": `<MPD><BaseURL>DASH_360.mp4</BaseURL></MPD>`,
		"https://v.redd.it/quiet/DASH_360.mp4":     "v360",
	})

	result, err := h.svc.Download(context.Background(), h.request("https://v.redd.it/quiet", quality.Highest{}, quality.Highest{}))
	require.NoError(t, err)

	assert.Empty(t, result.AudioQuality)
	assert.False(t, result.HasAudio())
	assert.Empty(t, h.combiner.audioPath)
}

func TestDownload_NilPoliciesMeanHighest(t *testing.T) {
	h := newHarness(t, standardBodies())

	result, err := h.svc.Download(context.Background(), h.request("https://v.redd.it/abc123", nil, nil))
	require.NoError(t, err)

	assert.Equal(t, "DASH_1080.mp4", result.VideoQuality)
	assert.Equal(t, "DASH_AUDIO_128.mp4", result.AudioQuality)
}

func TestDownload_InvalidURL(t *testing.T) {
	h := newHarness(t, standardBodies())

	result, err := h.svc.Download(context.Background(), h.request("https://vimeo.com/123", quality.Highest{}, quality.Highest{}))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, errpkg.ErrInvalidURL)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageStart, stageErr.Stage)
	assert.Empty(t, h.getter.calls)
	assertScratchRemoved(t, h)
}

func TestDownload_NoMediaFound(t *testing.T) {
	h := newHarness(t, map[string]string{
		"https://www.reddit.com/r/pics/comments/abc/cat.json": `{"url": "https://i.redd.it/cat.jpg"}`,
	})

	_, err := h.svc.Download(context.Background(), h.request("https://www.reddit.com/r/pics/comments/abc/cat", quality.Highest{}, quality.Highest{}))

	assert.ErrorIs(t, err, errpkg.ErrNoMediaFound)
	assertScratchRemoved(t, h)
}

func TestDownload_QualityNotFound(t *testing.T) {
	h := newHarness(t, standardBodies())

	_, err := h.svc.Download(context.Background(), h.request("https://v.redd.it/abc123", quality.Exact{Value: 720}, quality.Highest{}))

	assert.ErrorIs(t, err, errpkg.ErrQualityNotFound)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageMetadataFetched, stageErr.Stage)
	assert.Zero(t, h.combiner.calls)
	assert.False(t, h.getter.called("https://v.redd.it/abc123/DASH_1080.mp4"))
	assertScratchRemoved(t, h)
}

func TestDownload_EmptyManifest(t *testing.T) {
	h := newHarness(t, map[string]string{
		"https://v.redd.it/empty/DASHPlaylist.mpd": `<MPD></MPD>`,
	})

	_, err := h.svc.Download(context.Background(), h.request("https://v.redd.it/empty", quality.Lowest{}, quality.Lowest{}))

	assert.ErrorIs(t, err, errpkg.ErrEmptyOptions)
	assertScratchRemoved(t, h)
}

func TestDownload_TransportFailure(t *testing.T) {
	bodies := standardBodies()
	delete(bodies, "https://v.redd.it/abc123/DASH_AUDIO_128.mp4")
	h := newHarness(t, bodies)

	_, err := h.svc.Download(context.Background(), h.request("https://v.redd.it/abc123", quality.Highest{}, quality.Highest{}))

	var transportErr *errpkg.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 404, transportErr.StatusCode)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageQualitySelected, stageErr.Stage)
	assert.Zero(t, h.combiner.calls)
	assertScratchRemoved(t, h)
}

func TestDownload_MuxFailure(t *testing.T) {
	h := newHarness(t, standardBodies())
	h.combiner.err = &errpkg.MuxError{Err: errors.New("exit status 1")}

	result, err := h.svc.Download(context.Background(), h.request("https://v.redd.it/abc123", quality.Highest{}, quality.Lowest{}))

	assert.Nil(t, result)
	var muxErr *errpkg.MuxError
	require.ErrorAs(t, err, &muxErr)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageDownloaded, stageErr.Stage)
	assert.Equal(t, 1, h.combiner.calls)
	assertScratchRemoved(t, h)
}

func TestDownload_ScratchParentMissing(t *testing.T) {
	h := newHarness(t, standardBodies())
	h.svc.deps.TempDir = filepath.Join(h.tempDir, "missing", "dir")

	_, err := h.svc.Download(context.Background(), h.request("https://v.redd.it/abc123", quality.Highest{}, quality.Highest{}))

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageStart, stageErr.Stage)
	assert.Empty(t, h.getter.calls)
}

func TestSelectRenditions(t *testing.T) {
	r := manifest.Renditions{
		Video: []string{"DASH_240.mp4", "DASH_1080.mp4", "DASH_480.mp4"},
		Audio: []string{"DASH_AUDIO_64.mp4", "DASH_AUDIO_128.mp4"},
	}

	video, audio, err := selectRenditions(r, quality.Highest{}, quality.Lowest{}, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "DASH_1080.mp4", video)
	assert.Equal(t, "DASH_AUDIO_64.mp4", audio)

	_, _, err = selectRenditions(r, quality.Highest{}, quality.Exact{Value: 96}, newTestLogger())
	assert.ErrorIs(t, err, errpkg.ErrQualityNotFound)

	_, _, err = selectRenditions(manifest.Renditions{}, quality.Highest{}, quality.Highest{}, newTestLogger())
	assert.ErrorIs(t, err, errpkg.ErrEmptyOptions)

	_, _, err = selectRenditions(manifest.Renditions{
		Video: []string{"DASH_240.mp4"},
		Audio: []string{"DASH_AUDIO_x.mp4"},
	}, quality.Highest{}, quality.Highest{}, newTestLogger())
	assert.ErrorIs(t, err, errpkg.ErrEmptyOptions)
}
