package quality

import (
	"fmt"
	"slices"

	errpkg "github.com/veranemoloko/vreddit-downloader/internal/errors"
)

// Select returns the option chosen by p. options is never modified.
func Select(options []int, p Policy) (int, error) {
	if len(options) == 0 {
		return 0, errpkg.ErrEmptyOptions
	}

	switch p := p.(type) {
	case Lowest:
		return slices.Min(options), nil
	case Highest:
		return slices.Max(options), nil
	case Exact:
		if slices.Contains(options, p.Value) {
			return p.Value, nil
		}
		return 0, fmt.Errorf("%w: %d not in %v", errpkg.ErrQualityNotFound, p.Value, options)
	case Closest:
		return closest(options, p.Value), nil
	default:
		return 0, fmt.Errorf("%w: %T", errpkg.ErrInvalidPolicy, p)
	}
}

// closest orders candidates by (distance, value).
func closest(options []int, target int) int {
	best := options[0]
	bestDist := distance(best, target)
	for _, o := range options[1:] {
		d := distance(o, target)
		if d < bestDist || (d == bestDist && o < best) {
			best, bestDist = o, d
		}
	}
	return best
}

// distance is |a-b| computed in uint so extreme targets cannot overflow.
func distance(a, b int) uint {
	if a > b {
		return uint(a) - uint(b)
	}
	return uint(b) - uint(a)
}
