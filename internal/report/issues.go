package report

import (
	"errors"

	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/journal"
)

// ErrNoMetadata marks a document that parsed but carries no metadata.
var ErrNoMetadata = errors.New("front matter is empty")

// Issue is a document whose front matter cannot be used.
type Issue struct {
	Path string
	Err  error
}

// Message returns the issue text without the path.
func (i Issue) Message() string {
	var yerr *document.YFMError
	if errors.As(i.Err, &yerr) {
		return yerr.Cause.Error()
	}
	return i.Err.Error()
}

// YFMIssues loads every document under basedir strictly and returns those
// whose front matter fails or is empty. Read errors abort the scan.
func YFMIssues(basedir string, opts document.Options) ([]Issue, error) {
	paths, err := journal.Discover(basedir)
	if err != nil {
		return nil, err
	}

	opts.ErrorPolicy = document.PolicyRaise
	opts.ParseYFM = true

	var issues []Issue
	for _, path := range paths {
		doc, err := document.Load(path, opts)
		if err != nil {
			var yerr *document.YFMError
			if !errors.As(err, &yerr) {
				return nil, err
			}
			issues = append(issues, Issue{Path: path, Err: err})
			continue
		}
		if doc.Meta == nil {
			issues = append(issues, Issue{Path: path, Err: ErrNoMetadata})
		}
	}
	return issues, nil
}
