package yfm

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Split and Parse.
var (
	ErrNoBoundaryMarker      = errors.New("no front matter boundary marker")
	ErrMissingLeadingMarker  = errors.New("only one front matter boundary marker")
	ErrUnexpectedLeadingText = errors.New("text before front matter boundary marker")
	ErrMetadataSyntax        = errors.New("front matter syntax error")
	ErrUnknownRequirement    = errors.New("unknown marker requirement")
)

// LeadingTextError reports non-blank text found before the first of two
// boundary markers. Usually the matched "markers" are horizontal rules in the
// body rather than a front matter block.
type LeadingTextError struct {
	Pattern string
	Text    string
}

func (e *LeadingTextError) Error() string {
	if len(e.Text) < 100 {
		return fmt.Sprintf("%v (%q): %q", ErrUnexpectedLeadingText, e.Pattern, e.Text)
	}
	return fmt.Sprintf("%v (%q): %d chars", ErrUnexpectedLeadingText, e.Pattern, len(e.Text))
}

func (e *LeadingTextError) Is(target error) bool {
	return target == ErrUnexpectedLeadingText
}

// SyntaxError wraps a YAML decoding failure of the front matter block.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMetadataSyntax, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrMetadataSyntax
}
