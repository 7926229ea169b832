// Package strfmt fills brace-delimited fields in a format string, e.g.
// "{status:^10}: {expid:<10} {title}".
//
// A field is {name} or {name:layout} where layout is an optional fill rune and an
// alignment ('<', '>' or '^') followed by a width. "{{" and "}}" are literal
// braces.
package strfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrBadFormat    = errors.New("bad format string")
)

// Lookup returns the text for a field name and whether it exists.
type Lookup func(name string) (string, bool)

// Map returns a Lookup over vars, formatting values with fmt.Sprint. Nil
// values render as "".
func Map(vars map[string]any) Lookup {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		if !ok {
			return "", false
		}
		if v == nil {
			return "", true
		}
		if s, ok := v.(string); ok {
			return s, true
		}
		return fmt.Sprint(v), true
	}
}

// Format fills format with values from lookup. Missing fields are an error
// when strict is set and empty otherwise.
func Format(format string, lookup Lookup, strict bool) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch c {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' at %d", ErrBadFormat, i)
			}
			field := format[i+1 : i+end]
			i += end

			name, layout, _ := strings.Cut(field, ":")
			val, ok := lookup(name)
			if !ok && strict {
				return "", fmt.Errorf("%w: %s", ErrMissingField, name)
			}
			padded, err := pad(val, layout)
			if err != nil {
				return "", err
			}
			b.WriteString(padded)
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				i++
			}
			b.WriteByte('}')
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func pad(val, layout string) (string, error) {
	if layout == "" {
		return val, nil
	}

	fill := " "
	align := byte('<')
	rest := layout
	if r, size := utf8.DecodeRuneInString(layout); size < len(layout) && isAlign(layout[size]) {
		fill = string(r)
		align = layout[size]
		rest = layout[size+1:]
	} else if isAlign(layout[0]) {
		align = layout[0]
		rest = layout[1:]
	}

	if rest == "" {
		return val, nil
	}
	width, err := strconv.Atoi(rest)
	if err != nil {
		return "", fmt.Errorf("%w: field layout %q", ErrBadFormat, layout)
	}

	n := width - utf8.RuneCountInString(val)
	if n <= 0 {
		return val, nil
	}
	switch align {
	case '>':
		return strings.Repeat(fill, n) + val, nil
	case '^':
		left := n / 2
		return strings.Repeat(fill, left) + val + strings.Repeat(fill, n-left), nil
	default:
		return val + strings.Repeat(fill, n), nil
	}
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^'
}
