// Package migrations embeds the goose SQL migrations for the Postgres schema.
package migrations

import "embed"

// Dir is the directory inside FS that goose reads.
const Dir = "goose_sql"

//go:embed goose_sql/*.sql
var FS embed.FS
