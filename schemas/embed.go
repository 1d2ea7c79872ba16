// Package schemas embeds the JSON Schemas for configuration files and the
// schedule hand-off record.
package schemas

import "embed"

// Schema file names.
const (
	Config   = "config.schema.json"
	Metadata = "metadata.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
