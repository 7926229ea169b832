package yfm

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Metadata is the decoded front matter of a document. Values are scalars,
// []any sequences or map[string]any mappings.
type Metadata map[string]any

// String returns the value for key formatted as text, or "" when the key is
// missing or null.
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Clone returns a shallow copy of m. A nil map stays nil.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var errNotMapping = errors.New("front matter is not a mapping")

// Parse decodes a front matter block. An empty block (or one holding only
// comments or an explicit null) yields nil metadata and no error.
func Parse(frontMatter string) (Metadata, error) {
	var decoded any
	if err := yaml.Unmarshal([]byte(frontMatter), &decoded); err != nil {
		return nil, &SyntaxError{Err: err}
	}
	if decoded == nil {
		return nil, nil
	}

	switch v := normalize(decoded).(type) {
	case map[string]any:
		return Metadata(v), nil
	default:
		return nil, &SyntaxError{Err: fmt.Errorf("%w (got %T)", errNotMapping, decoded)}
	}
}

// ParseDocument splits raw and decodes its front matter.
func ParseDocument(raw string, opts SplitOptions) (Metadata, string, Parts, error) {
	parts, err := Split(raw, opts)
	if err != nil {
		return nil, "", Parts{}, err
	}
	meta, err := Parse(parts.FrontMatter)
	if err != nil {
		return nil, "", parts, err
	}
	return meta, parts.Body, parts, nil
}

// normalize converts map[any]any values, which yaml.v3 produces for mappings
// with non-string keys, into map[string]any throughout the tree.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
