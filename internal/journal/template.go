package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Template is a user-provided skeleton for new documents.
type Template struct {
	Name    string
	Path    string
	Content string
}

// TemplateDir returns the directory holding document templates. It is
// hidden so templates are never picked up as documents.
func (j *Journal) TemplateDir() string {
	return filepath.Join(j.Root, ".eln", "templates")
}

// LoadTemplates loads all templates from the journal's template directory.
func (j *Journal) LoadTemplates() ([]Template, error) {
	dir := j.TemplateDir()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var templates []Template
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Ext {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", entry.Name(), err)
		}

		templates = append(templates, Template{
			Name:    strings.TrimSuffix(entry.Name(), Ext),
			Path:    path,
			Content: string(content),
		})
	}

	sort.Slice(templates, func(a, b int) bool { return templates[a].Name < templates[b].Name })
	return templates, nil
}

// FindTemplate returns the template with the given name.
func (j *Journal) FindTemplate(name string) (Template, error) {
	templates, err := j.LoadTemplates()
	if err != nil {
		return Template{}, err
	}
	for _, t := range templates {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("template %q not found in %s", name, j.TemplateDir())
}

// ExpandTemplate expands template variables in content.
// Variables:
//
//	{{expid}}     - Experiment ID
//	{{title}}     - Experiment title
//	{{date}}      - Date (YYYY-MM-DD)
//	{{datetime}}  - Date and time (YYYY-MM-DD HH:MM:SS)
//	{{slug}}      - Slugified title
func ExpandTemplate(content, expid, title string, now time.Time) string {
	r := strings.NewReplacer(
		"{{expid}}", expid,
		"{{title}}", title,
		"{{date}}", now.Format("2006-01-02"),
		"{{datetime}}", now.Format("2006-01-02 15:04:05"),
		"{{slug}}", Slugify(title),
	)
	return r.Replace(content)
}

// CreateFromTemplate creates a new experiment document from a template.
func (j *Journal) CreateFromTemplate(t Template, expid, title string, now time.Time) (string, error) {
	content := ExpandTemplate(t.Content, expid, title, now)

	path, err := j.CreateDocument(ExperimentFileName(expid, title), content)
	if err != nil {
		return "", fmt.Errorf("create from template: %w", err)
	}
	return path, nil
}
