package journal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrExists is returned when a new document would overwrite a file.
var ErrExists = errors.New("document already exists")

// Experiment holds the front matter written for a new experiment.
type Experiment struct {
	ExpID     string   `yaml:"expid"`
	Title     string   `yaml:"title"`
	Status    string   `yaml:"status"`
	StartDate string   `yaml:"startdate"`
	Tags      []string `yaml:"tags,flow,omitempty"`
}

// ExperimentFileName returns the relative file name of an experiment
// document, e.g. "RS123 ligation-test.md".
func ExperimentFileName(expid, title string) string {
	name := strings.TrimSpace(expid)
	if slug := Slugify(title); slug != "" {
		name += " " + slug
	}
	return name + Ext
}

// CreateExperiment writes a new experiment document with front matter and a
// heading. It returns the path of the new file.
func (j *Journal) CreateExperiment(expid, title string, tags []string, now time.Time) (string, error) {
	if strings.TrimSpace(expid) == "" {
		return "", errors.New("create experiment: empty expid")
	}

	exp := Experiment{
		ExpID:     expid,
		Title:     title,
		Status:    "started",
		StartDate: now.Format("2006-01-02"),
		Tags:      tags,
	}
	content, err := RenderExperiment(exp)
	if err != nil {
		return "", fmt.Errorf("create experiment: %w", err)
	}

	return j.CreateDocument(ExperimentFileName(expid, title), content)
}

// RenderExperiment produces the document text for exp.
func RenderExperiment(exp Experiment) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(exp); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# %s %s\n\n", exp.ExpID, exp.Title)
	return buf.String(), nil
}

// CreateDocument writes content to relPath inside the journal. Existing
// files are never overwritten.
func (j *Journal) CreateDocument(relPath, content string) (string, error) {
	absPath := filepath.Join(j.Root, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	f, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("%w: %s", ErrExists, relPath)
	}
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}

	return absPath, nil
}
