// Package schemas embeds the JSON Schemas for suite and snapshot files.
package schemas

import _ "embed"

//go:embed suite.schema.json
var SuiteSchemaJSON string

//go:embed snapshot.schema.json
var SnapshotSchemaJSON string
