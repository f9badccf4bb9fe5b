// Package templates holds the markdown files opsx-one installs into a
// project.
package templates

import "embed"

// FS contains every shipped template at its top level.
//
//go:embed *.md
var FS embed.FS
