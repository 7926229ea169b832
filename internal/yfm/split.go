// Package yfm extracts YAML front matter from lab notebook documents.
//
// A document optionally starts with a metadata block delimited by two marker
// lines (by default a line of three or more hyphens):
//
//	---
//	expid: RS123
//	status: started
//	---
//	# Body
//
// Split finds the block and Parse decodes it. Both fail loudly; deciding
// whether a failure is fatal is left to the caller.
package yfm

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultBoundary matches a standalone line of three or more hyphens.
var DefaultBoundary = regexp.MustCompile(`(?m)^-{3,}\r?$`)

// Requirement controls what Split does when only one marker line is found.
type Requirement int

const (
	// RequireRaise rejects documents with a single marker.
	RequireRaise Requirement = iota
	// RequireWarn accepts them but flags Parts.MissingLeadingMarker.
	RequireWarn
	// RequireOff accepts them silently.
	RequireOff
)

func (r Requirement) String() string {
	switch r {
	case RequireRaise:
		return "raise"
	case RequireWarn:
		return "warn"
	case RequireOff:
		return "off"
	default:
		return fmt.Sprintf("Requirement(%d)", int(r))
	}
}

// ParseRequirement maps a config/flag value onto a Requirement.
func ParseRequirement(s string) (Requirement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raise", "true", "yes":
		return RequireRaise, nil
	case "warn":
		return RequireWarn, nil
	case "off", "false", "no", "none":
		return RequireOff, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRequirement, s)
	}
}

// SplitOptions configures Split.
type SplitOptions struct {
	// Pattern matches a boundary marker line. Must be multi-line anchored.
	Pattern *regexp.Regexp
	// LeadingMarker decides how a document with one marker is treated.
	LeadingMarker Requirement
	// RequireEmptyPre rejects documents with text before the first marker.
	RequireEmptyPre bool
}

// DefaultSplitOptions returns the strict defaults.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{
		Pattern:         DefaultBoundary,
		LeadingMarker:   RequireRaise,
		RequireEmptyPre: true,
	}
}

// Parts is the result of a successful Split.
type Parts struct {
	Pre         string
	FrontMatter string
	Body        string
	// MissingLeadingMarker is set when only one marker was found and the
	// text before it was taken as front matter (RequireWarn/RequireOff).
	MissingLeadingMarker bool
}

// Split separates raw into front matter and body on the first two matches of
// opts.Pattern.
//
// With a single match the text before the marker becomes the front matter and
// the rest the body. That is accepted only when opts.LeadingMarker allows it.
func Split(raw string, opts SplitOptions) (Parts, error) {
	pattern := opts.Pattern
	if pattern == nil {
		pattern = DefaultBoundary
	}

	pieces := pattern.Split(raw, 3)
	switch len(pieces) {
	case 1:
		return Parts{}, fmt.Errorf("%w (%q)", ErrNoBoundaryMarker, pattern.String())

	case 2:
		switch opts.LeadingMarker {
		case RequireRaise:
			return Parts{}, fmt.Errorf("%w (%q)", ErrMissingLeadingMarker, pattern.String())
		case RequireWarn, RequireOff:
		default:
			return Parts{}, fmt.Errorf("%w: %v", ErrUnknownRequirement, opts.LeadingMarker)
		}
		return Parts{
			FrontMatter:          pieces[0],
			Body:                 trimLineStart(pieces[1]),
			MissingLeadingMarker: true,
		}, nil

	default:
		pre := pieces[0]
		if opts.RequireEmptyPre && strings.TrimSpace(pre) != "" {
			return Parts{}, &LeadingTextError{Pattern: pattern.String(), Text: pre}
		}
		return Parts{
			Pre:         pre,
			FrontMatter: trimLineStart(pieces[1]),
			Body:        trimLineStart(pieces[2]),
		}, nil
	}
}

// trimLineStart drops the line terminator left behind by a marker match.
func trimLineStart(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	return strings.TrimPrefix(s, "\n")
}
