package transform

import (
	"fmt"
	"strings"
)

const (
	DefaultMarker  = "/* // Comment out ALL other describe blocks"
	DefaultAnchor  = "Precision Methods"
	DefaultKeyword = "describe"
	DefaultName    = "constructor"
)

// ScanMode selects how a group's closing delimiter is found.
type ScanMode string

const (
	// ScanBalanced counts braces, skipping strings and comments.
	ScanBalanced ScanMode = "balanced"
	// ScanHeuristic stops at the nearest `});` after the header.
	ScanHeuristic ScanMode = "heuristic"
)

// Options configures a single transformation.
type Options struct {
	// Marker is the literal text opening the disabled region. It must start with "/*".
	Marker string
	// Anchor is the name of the always-enabled group right after the region.
	Anchor string
	// Keyword is the call that introduces a group, e.g. "describe".
	Keyword string
	// Name is the group to activate.
	Name string
	// Scan selects the close-delimiter strategy. Empty means ScanBalanced.
	Scan ScanMode
}

// DefaultOptions returns the options matching the bigint test layout.
func DefaultOptions() Options {
	return Options{
		Marker:  DefaultMarker,
		Anchor:  DefaultAnchor,
		Keyword: DefaultKeyword,
		Name:    DefaultName,
		Scan:    ScanBalanced,
	}
}

// Validate reports whether the options can drive a transformation.
func (o Options) Validate() error {
	switch {
	case !strings.HasPrefix(o.Marker, "/*"):
		return fmt.Errorf("%w: marker %q must open a block comment", ErrInvalidOptions, o.Marker)
	case o.Anchor == "":
		return fmt.Errorf("%w: anchor is empty", ErrInvalidOptions)
	case o.Keyword == "":
		return fmt.Errorf("%w: keyword is empty", ErrInvalidOptions)
	case o.Name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidOptions)
	}

	switch o.Scan {
	case "", ScanBalanced, ScanHeuristic:
		return nil
	default:
		return fmt.Errorf("%w: unknown scan mode %q", ErrInvalidOptions, o.Scan)
	}
}
