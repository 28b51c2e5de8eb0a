// Package schemas embeds the JSON Schemas describing checkniner documents:
// seed fixtures and JSON reports.
package schemas

import "embed"

// Names of the embedded schema files.
const (
	Fixture = "fixture.schema.json"
	Report  = "report.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
