// Package migrations embeds the schema for each supported SQL dialect.
package migrations

import "embed"

// FS holds sqlite/*.up.sql and postgres/*.up.sql, applied in name order.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
