package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	cfgpkg "github.com/veranemoloko/vreddit-downloader/internal/config"
	"github.com/veranemoloko/vreddit-downloader/internal/domain"
	errpkg "github.com/veranemoloko/vreddit-downloader/internal/errors"
	"github.com/veranemoloko/vreddit-downloader/internal/quality"
	svc "github.com/veranemoloko/vreddit-downloader/internal/service"
	"github.com/veranemoloko/vreddit-downloader/internal/validation"
)

const usage = "Usage: vreddit-dl [-o path] [-video policy] [-audio policy] <url>"

func main() {
	os.Exit(run(os.Args[1:], color.Output, color.Error))
}

// run returns 0 on success, 1 when the download fails and 2 on bad input.
func run(args []string, stdout, stderr io.Writer) int {
	red := color.New(color.FgRed)

	cfg, err := cfgpkg.LoadEnv()
	if err != nil {
		red.Fprintf(stderr, "config: %v\n", err)
		return 2
	}

	flags := flag.NewFlagSet("vreddit-dl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		output    = flags.String("o", "", "Output file or directory (default: current directory)")
		videoFlag = flags.String("video", cfg.VideoQuality, "Video quality policy: lowest, highest, exact:N, closest:N")
		audioFlag = flags.String("audio", cfg.AudioQuality, "Audio quality policy: lowest, highest, exact:N, closest:N")
		verbose   = flags.Bool("v", false, "Verbose logging")
	)
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, usage)
		flags.PrintDefaults()
		return 2
	}

	rawURL := flags.Arg(0)
	if err := validation.ValidateURL(rawURL); err != nil {
		red.Fprintf(stderr, "%s: %v\n", errpkg.Kind(errpkg.ErrInvalidURL), err)
		return 2
	}

	video, err := quality.Parse(*videoFlag)
	if err != nil {
		red.Fprintf(stderr, "-video: %v\n", err)
		return 2
	}
	audio, err := quality.Parse(*audioFlag)
	if err != nil {
		red.Fprintf(stderr, "-audio: %v\n", err)
		return 2
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := cfgpkg.NewLogger(stderr, level, "text")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.DownloadTimeout)
	defer cancel()

	downloads := svc.NewDownloadServiceFromConfig(cfg, logger)
	result, err := downloads.Download(ctx, domain.DownloadRequest{
		URL:    rawURL,
		Output: *output,
		Video:  video,
		Audio:  audio,
	})
	if err != nil {
		red.Fprintf(stderr, "%s: %v\n", errpkg.Kind(err), err)
		return 1
	}

	color.New(color.FgGreen).Fprintf(stdout, "Saved %s\n", result.Path)
	if result.HasAudio() {
		fmt.Fprintf(stdout, "video %s, audio %s\n", result.VideoQuality, result.AudioQuality)
	} else {
		fmt.Fprintf(stdout, "video %s, no audio track\n", result.VideoQuality)
	}
	return 0
}
