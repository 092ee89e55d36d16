// Package migrations embeds the versioned schema for each supported database.
package migrations

import "embed"

// FS holds one directory of NNN_name.sql files per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
