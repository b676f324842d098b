// Package docs bundles the jirahhh guides into the binary.
package docs

import "embed"

// FS holds guide/*.md, shown by `jirahhh docs`.
//
//go:embed guide
var FS embed.FS
