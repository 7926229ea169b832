package journal

import (
	"strings"
	"unicode"
)

// Slugify turns an experiment title into a file name fragment: lowercase
// letters and digits joined by single hyphens. Dots are kept so version
// numbers survive.
func Slugify(title string) string {
	var buf strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.':
			if hyphen && buf.Len() > 0 {
				buf.WriteByte('-')
			}
			hyphen = false
			buf.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '/':
			hyphen = true
		}
	}
	return strings.Trim(buf.String(), ".")
}
