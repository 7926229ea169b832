package document

import (
	"errors"
	"fmt"
)

// ErrInvalidUTF8 is returned when a document is not valid UTF-8 text. Like
// other read failures it is never absorbed by a Policy.
var ErrInvalidUTF8 = errors.New("document is not valid UTF-8")

// YFMError wraps a front matter failure with the path of the document.
type YFMError struct {
	Path  string
	Cause error
}

func (e *YFMError) Error() string {
	return fmt.Sprintf("parse front matter of %s: %v", e.Path, e.Cause)
}

func (e *YFMError) Unwrap() error {
	return e.Cause
}
