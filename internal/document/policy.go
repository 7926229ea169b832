package document

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognised names.
var ErrUnknownPolicy = errors.New("unknown yfm error policy")

// Policy decides what happens when a document's front matter cannot be
// split or decoded.
type Policy int

const (
	// PolicyRaise returns a *YFMError.
	PolicyRaise Policy = iota
	// PolicyWarn logs the failure and treats the whole file as body.
	PolicyWarn
	// PolicyIgnore treats the whole file as body without a diagnostic.
	PolicyIgnore
	// PolicySkipFile only has meaning for corpus loads, where the failing
	// file is dropped. A single-document load treats it like PolicyRaise.
	PolicySkipFile
)

func (p Policy) String() string {
	switch p {
	case PolicyRaise:
		return "raise"
	case PolicyWarn:
		return "warn"
	case PolicyIgnore:
		return "ignore"
	case PolicySkipFile:
		return "skip-file"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a config or flag value onto a Policy. "report" is an
// alias for "warn".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raise":
		return PolicyRaise, nil
	case "warn", "report":
		return PolicyWarn, nil
	case "ignore":
		return PolicyIgnore, nil
	case "skip-file", "skip":
		return PolicySkipFile, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Set implements pflag.Value so a Policy can be bound to a flag directly.
func (p *Policy) Set(s string) error {
	v, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Type implements pflag.Value.
func (p *Policy) Type() string {
	return "policy"
}
