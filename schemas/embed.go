// Package schemas embeds the built-in schema definitions shipped with envguard.
package schemas

import "embed"

// FS holds <name>.yaml files at its root.
//
//go:embed *.yaml
var FS embed.FS
