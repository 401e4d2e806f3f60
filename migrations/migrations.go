// Package migrations embeds the SQL schema migrations shipped with the
// binary. Files follow golang-migrate naming: NNNN_name.up.sql applies a
// change, NNNN_name.down.sql reverts it.
package migrations

import "embed"

// FS holds every migration file. The postgres migrator reads it through an
// iofs source at startup.
//
//go:embed *.sql
var FS embed.FS
