package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// MarkerDetector decides whether a destination already carries managed
// content, and stamps content so a later run can tell.
type MarkerDetector interface {
	Detect(existing string) bool
	Mark(content string) string
}

// DefaultMarkerTokens are the substrings earlier opsx-one releases look for.
var DefaultMarkerTokens = []string{"opsx-one", "OpenSpec"}

// LegacyMarkers is a plain substring check. Any unrelated text containing a
// token is a false positive; that is accepted behavior.
type LegacyMarkers struct {
	Tokens []string
}

// NewLegacyMarkers returns a detector for tokens, or DefaultMarkerTokens when empty.
func NewLegacyMarkers(tokens ...string) LegacyMarkers {
	if len(tokens) == 0 {
		tokens = DefaultMarkerTokens
	}
	return LegacyMarkers{Tokens: tokens}
}

func (m LegacyMarkers) Detect(existing string) bool {
	for _, tok := range m.Tokens {
		if tok != "" && strings.Contains(existing, tok) {
			return true
		}
	}
	return false
}

// Mark returns content unchanged; the template text itself carries the tokens.
func (m LegacyMarkers) Mark(content string) string {
	return content
}

// SentinelMarker detects a dedicated comment line of the form
// "<!-- name:managed vN -->". Any version is recognized.
type SentinelMarker struct {
	Name    string
	Version int
	re      *regexp.Regexp
}

// NewSentinelMarker builds a sentinel detector for name at version.
func NewSentinelMarker(name string, version int) SentinelMarker {
	if version < 1 {
		version = 1
	}
	pattern := `(?m)^[ \t]*<!--[ \t]*` + regexp.QuoteMeta(name) + `:managed v[0-9]+[ \t]*-->[ \t]*\r?$`
	return SentinelMarker{Name: name, Version: version, re: regexp.MustCompile(pattern)}
}

// Line returns the sentinel line written by this detector.
func (m SentinelMarker) Line() string {
	return fmt.Sprintf("<!-- %s:managed v%d -->", m.Name, m.Version)
}

func (m SentinelMarker) Detect(existing string) bool {
	if m.re == nil {
		m = NewSentinelMarker(m.Name, m.Version)
	}
	return m.re.MatchString(existing)
}

func (m SentinelMarker) Mark(content string) string {
	if m.Detect(content) {
		return content
	}
	return m.Line() + "\n" + content
}
