// Package migrations embeds the event history schema into the binary.
package migrations

import "embed"

// FS holds the forward-only schema files applied by database.DB.Migrate.
//
//go:embed *.up.sql
var FS embed.FS
