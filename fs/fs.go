// Package appfs exposes build-time assets embedded in the binary.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
