// Package transform holds the content rewrites applied to templates for a
// runtime flavor. Every transform is pure.
package transform

import (
	"fmt"
	"sort"
	"strings"
)

// Transform rewrites template content.
type Transform interface {
	Apply(content string) (string, error)
}

// Func adapts a plain function to Transform.
type Func func(string) (string, error)

func (f Func) Apply(content string) (string, error) {
	return f(content)
}

// Identity returns content unchanged.
var Identity Transform = Func(func(s string) (string, error) { return s, nil })

type chain []Transform

// Chain applies transforms left to right and stops at the first error.
func Chain(ts ...Transform) Transform {
	flat := make(chain, 0, len(ts))
	for _, t := range ts {
		if t == nil {
			continue
		}
		if c, ok := t.(chain); ok {
			flat = append(flat, c...)
			continue
		}
		flat = append(flat, t)
	}
	if len(flat) == 0 {
		return Identity
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return flat
}

func (c chain) Apply(content string) (string, error) {
	var err error
	for i, t := range c {
		content, err = t.Apply(content)
		if err != nil {
			return "", fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return content, nil
}

// RenameTokens replaces each old token with its new value. Pairs are applied
// simultaneously, so a replacement is never itself rewritten.
func RenameTokens(pairs map[string]string) Transform {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		if k != "" {
			keys = append(keys, k)
		}
	}
	// Longest first so overlapping tokens resolve predictably.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	args := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, pairs[k])
	}
	r := strings.NewReplacer(args...)
	return Func(func(s string) (string, error) {
		return r.Replace(s), nil
	})
}
