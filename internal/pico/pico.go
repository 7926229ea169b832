// Package pico implements %variable% substitution in document bodies.
// Nested values are addressed with dots, e.g. %meta.author%.
package pico

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/yfm"
)

// ErrMissingKey is returned when a placeholder names an unknown variable.
var ErrMissingKey = errors.New("missing variable")

// Placeholder matches %name% and %name.sub%.
var Placeholder = regexp.MustCompile(`%[\w.]+%`)

// Mode selects what happens to placeholders that cannot be resolved.
type Mode int

const (
	// ModePass leaves them in place.
	ModePass Mode = iota
	// ModePrint leaves them in place and logs a warning.
	ModePrint
	// ModeRaise fails the substitution.
	ModeRaise
)

func (m Mode) String() string {
	switch m {
	case ModePass:
		return "pass"
	case ModePrint:
		return "print"
	case ModeRaise:
		return "raise"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "pass", "print" or "raise".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pass", "ignore":
		return ModePass, nil
	case "print", "warn":
		return ModePrint, nil
	case "raise":
		return ModeRaise, nil
	}
	return 0, fmt.Errorf("unknown substitution mode %q", s)
}

// FindPlaceholders returns the distinct placeholders in content, sorted.
func FindPlaceholders(content string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range Placeholder.FindAllString(content, -1) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Lookup resolves a dotted name against vars.
func Lookup(vars map[string]any, name string) (any, error) {
	var cur any = vars
	for _, key := range strings.Split(name, ".") {
		var (
			val any
			ok  bool
		)
		switch m := cur.(type) {
		case map[string]any:
			val, ok = m[key]
		case yfm.Metadata:
			val, ok = m[key]
		case map[string]string:
			val, ok = m[key]
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingKey, name)
		}
		cur = val
	}
	return cur, nil
}

// Logger receives warnings in ModePrint.
type Logger interface {
	Warn(msg any, keyvals ...any)
}

// Substitute replaces every resolvable placeholder in content with its value.
func Substitute(content string, vars map[string]any, mode Mode, logger Logger) (string, error) {
	var pairs []string
	for _, placeholder := range FindPlaceholders(content) {
		val, err := Lookup(vars, strings.Trim(placeholder, "%"))
		if err != nil {
			switch mode {
			case ModeRaise:
				return "", err
			case ModePrint:
				if logger != nil {
					logger.Warn("unresolved placeholder", "placeholder", placeholder)
				}
			}
			continue
		}
		pairs = append(pairs, placeholder, Format(val))
	}
	if len(pairs) == 0 {
		return content, nil
	}
	return strings.NewReplacer(pairs...).Replace(content), nil
}

// Format renders a variable value as text. Sequences are joined with ", ".
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = Format(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// DocumentVars returns the variables available to a document: its content,
// metadata and file info, with the file info keys also at the top level.
func DocumentVars(doc *document.Document) map[string]any {
	fields := doc.FileInfo.Fields()
	fileinfo := make(map[string]any, len(fields))
	for k, v := range fields {
		fileinfo[k] = v
	}

	vars := map[string]any{
		"content":     doc.Content,
		"raw_content": doc.RawContent,
		"path":        doc.Path,
		"meta":        map[string]any(doc.Meta),
		"fileinfo":    fileinfo,
	}
	for k, v := range fileinfo {
		vars[k] = v
	}
	return vars
}

// SubstituteDocument applies substitution to doc.Content in place.
func SubstituteDocument(doc *document.Document, mode Mode, logger Logger) error {
	content, err := Substitute(doc.Content, DocumentVars(doc), mode, logger)
	if err != nil {
		return fmt.Errorf("substitute %s: %w", doc.Path, err)
	}
	doc.Content = content
	return nil
}
