// Package quality picks one rendition out of the numeric options a manifest offers.
package quality

import (
	"fmt"
	"strconv"
	"strings"

	errpkg "github.com/veranemoloko/vreddit-downloader/internal/errors"
)

// Policy is one of Lowest, Highest, Exact or Closest.
type Policy interface {
	fmt.Stringer
	isPolicy()
}

// Lowest picks the smallest available rendition.
type Lowest struct{}

// Highest picks the largest available rendition.
type Highest struct{}

// Exact picks Value and fails when the manifest does not offer it.
type Exact struct {
	Value int
}

// Closest picks the rendition nearest to Value; the smaller one wins a tie.
type Closest struct {
	Value int
}

func (Lowest) isPolicy()  {}
func (Highest) isPolicy() {}
func (Exact) isPolicy()   {}
func (Closest) isPolicy() {}

func (Lowest) String() string    { return "lowest" }
func (Highest) String() string   { return "highest" }
func (p Exact) String() string   { return "exact:" + strconv.Itoa(p.Value) }
func (p Closest) String() string { return "closest:" + strconv.Itoa(p.Value) }

// Parse reads the textual form produced by Policy.String.
func Parse(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "lowest":
		return Lowest{}, nil
	case "highest":
		return Highest{}, nil
	}

	kind, raw, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q", errpkg.ErrInvalidPolicy, s)
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", errpkg.ErrInvalidPolicy, s, err)
	}

	switch kind {
	case "exact":
		return Exact{Value: value}, nil
	case "closest":
		return Closest{Value: value}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errpkg.ErrInvalidPolicy, s)
	}
}

// MustParse is Parse for constants known to be valid.
func MustParse(s string) Policy {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}
