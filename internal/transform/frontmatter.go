package transform

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMalformedFrontMatter is returned when a document opens a front matter
// block that cannot be parsed.
var ErrMalformedFrontMatter = errors.New("malformed front matter")

const fmDelim = "---"

// StripFrontMatterKeys removes the named top-level keys from a leading YAML
// front matter block. Documents without front matter, or without any of the
// keys, are returned byte for byte.
func StripFrontMatterKeys(keys ...string) Transform {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	return Func(func(content string) (string, error) {
		return stripKeys(content, drop)
	})
}

func stripKeys(content string, drop map[string]bool) (string, error) {
	fm, body, ok, err := splitFrontMatter(content)
	if err != nil || !ok {
		return content, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(fm), &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return content, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return "", fmt.Errorf("%w: expected a mapping, got %s", ErrMalformedFrontMatter, kindName(m.Kind))
	}

	kept := make([]*yaml.Node, 0, len(m.Content))
	removed := 0
	for i := 0; i+1 < len(m.Content); i += 2 {
		if drop[m.Content[i].Value] {
			removed++
			continue
		}
		kept = append(kept, m.Content[i], m.Content[i+1])
	}
	if removed == 0 {
		return content, nil
	}
	m.Content = kept

	var buf bytes.Buffer
	buf.WriteString(fmDelim + "\n")
	if len(kept) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return "", fmt.Errorf("encoding front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encoding front matter: %w", err)
		}
	}
	buf.WriteString(fmDelim + "\n")
	buf.WriteString(body)
	return buf.String(), nil
}

// splitFrontMatter returns the YAML between the opening and closing "---"
// lines and everything after the closing line. ok is false when content does
// not start with a delimiter line.
func splitFrontMatter(content string) (fm, body string, ok bool, err error) {
	rest, found := strings.CutPrefix(content, fmDelim+"\n")
	if !found {
		rest, found = strings.CutPrefix(content, fmDelim+"\r\n")
	}
	if !found {
		return "", content, false, nil
	}

	offset := 0
	for _, line := range strings.SplitAfter(rest, "\n") {
		if strings.TrimRight(line, "\r\n") == fmDelim {
			return rest[:offset], rest[offset+len(line):], true, nil
		}
		offset += len(line)
	}
	return "", "", false, fmt.Errorf("%w: no closing %q line", ErrMalformedFrontMatter, fmDelim)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
