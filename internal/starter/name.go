package starter

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxNameLen is npm's package name limit.
const maxNameLen = 214

// ErrInvalidName is returned when nothing usable is left after sanitizing.
var ErrInvalidName = errors.New("project name has no usable characters")

// SanitizeName turns a free-form project name into a valid npm package
// name: accents are folded, letters lower-cased, and every run of other
// characters becomes a single "-".
func SanitizeName(name string) (string, error) {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, name)
	if err != nil {
		return "", err
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	out := strings.TrimRight(b.String(), "-")
	// npm names cannot start with "." or "_".
	out = strings.TrimLeft(out, "._-")
	if len(out) > maxNameLen {
		out = strings.TrimRight(out[:maxNameLen], "-")
	}
	if out == "" {
		return "", ErrInvalidName
	}
	return out, nil
}
