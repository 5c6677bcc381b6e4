package migrations

import "embed"

// FS contains embedded SQLite migrations for inventory storage.
//
//go:embed *.sql
var FS embed.FS
