package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
)

var (
	// ErrTemplateNotFound is returned when no template matches the requested
	// name.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrNoTemplateDir is returned when a template is requested by name but
	// no template directory is configured.
	ErrNoTemplateDir = errors.New("no template directory")
)

// TemplatePatterns are the file patterns searched in a template directory.
var TemplatePatterns = []string{"*.jinja", "*.html"}

// Templates maps template names to files in dir. Each file is reachable by
// its name without extension, its base name and its full path.
func Templates(dir string) (map[string]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template dir %s: not a directory", dir)
	}

	var files []string
	for _, pat := range TemplatePatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}

	byName := make(map[string]string, 3*len(files))
	for _, fn := range files {
		base := filepath.Base(fn)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if _, ok := byName[stem]; !ok {
			byName[stem] = fn
		}
		byName[base] = fn
		byName[fn] = fn
	}
	return byName, nil
}

// ResolveTemplate finds the template file to apply. template may be a path
// to an existing file or a template name. When empty, the name comes from
// the document's "template" metadata or falls back to defaultName.
func ResolveTemplate(template, dir, defaultName, metaTemplate string) (string, error) {
	if template != "" {
		if info, err := os.Stat(template); err == nil && !info.IsDir() {
			return template, nil
		}
	}

	name := template
	if name == "" {
		name = metaTemplate
	}
	if name == "" {
		name = defaultName
	}

	if dir == "" {
		return "", fmt.Errorf("%w to look up %q", ErrNoTemplateDir, name)
	}
	templates, err := Templates(dir)
	if err != nil {
		return "", err
	}
	path, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %q in %s", ErrTemplateNotFound, name, dir)
	}
	return path, nil
}

// ExecuteTemplate renders the template file at path. Includes and extends
// resolve relative to the template's directory.
func ExecuteTemplate(path string, vars map[string]any) (string, error) {
	loader, err := pongo2.NewLocalFileSystemLoader(filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("template loader: %w", err)
	}
	set := pongo2.NewSet("eln", loader)

	tpl, err := set.FromFile(filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", path, err)
	}
	out, err := tpl.Execute(pongo2.Context(vars))
	if err != nil {
		return "", fmt.Errorf("execute template %s: %w", path, err)
	}
	return out, nil
}
