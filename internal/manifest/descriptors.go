package manifest

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	videoPrefix = "DASH_"
	audioPrefix = "DASH_AUDIO_"
	audioMarker = "audio"
)

// descriptorPattern matches element text such as >DASH_720.mp4< in the playlist.
var descriptorPattern = regexp.MustCompile(`>(DASH[^<>]*)<`)

// ExtractDescriptors returns every DASH_* token of the playlist text in document order.
func ExtractDescriptors(mpd string) []string {
	matches := descriptorPattern.FindAllStringSubmatch(mpd, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// Partition splits descriptors into video and audio, keeping order.
func Partition(descriptors []string) (video, audio []string) {
	for _, d := range descriptors {
		if IsAudio(d) {
			audio = append(audio, d)
		} else {
			video = append(video, d)
		}
	}
	return video, audio
}

// IsAudio matches "audio" case-insensitively.
func IsAudio(descriptor string) bool {
	return strings.Contains(strings.ToLower(descriptor), audioMarker)
}

// IsEmbeddedAudio reports whether descriptor names a single pre-muxed audio track
// (e.g. DASH_audio.mp4) rather than a numbered rendition. The match is case-sensitive.
func IsEmbeddedAudio(descriptor string) bool {
	return strings.Contains(descriptor, audioMarker)
}

// Options maps numbered descriptors to their numbers. Only the first descriptor
// carrying a given number is kept so that Token returns the manifest text verbatim.
type Options struct {
	values []int
	tokens map[int]string
}

// Values returns the numbers in manifest order.
func (o Options) Values() []int {
	return o.values
}

// Token returns the descriptor that produced n.
func (o Options) Token(n int) (string, bool) {
	t, ok := o.tokens[n]
	return t, ok
}

// Len is the number of distinct options.
func (o Options) Len() int {
	return len(o.values)
}

// VideoOptions parses DASH_<n>.<ext> descriptors.
func VideoOptions(descriptors []string) (Options, []string) {
	return numbered(descriptors, len(videoPrefix))
}

// AudioOptions parses DASH_AUDIO_<n>.<ext> descriptors.
func AudioOptions(descriptors []string) (Options, []string) {
	return numbered(descriptors, len(audioPrefix))
}

// numbered reads the integer between offset and the first '.'. Descriptors that
// do not parse are returned as skipped.
func numbered(descriptors []string, offset int) (Options, []string) {
	opts := Options{tokens: make(map[int]string, len(descriptors))}
	var skipped []string
	for _, d := range descriptors {
		n, ok := parseNumber(d, offset)
		if !ok {
			skipped = append(skipped, d)
			continue
		}
		if _, seen := opts.tokens[n]; seen {
			continue
		}
		opts.tokens[n] = d
		opts.values = append(opts.values, n)
	}
	return opts, skipped
}

func parseNumber(descriptor string, offset int) (int, bool) {
	if len(descriptor) <= offset {
		return 0, false
	}
	end := strings.IndexByte(descriptor, '.')
	if end < 0 {
		end = len(descriptor)
	}
	if end <= offset {
		return 0, false
	}
	n, err := strconv.Atoi(descriptor[offset:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
