// Package migrations embeds the goose SQL migrations so the binaries can
// migrate without shipping the files separately.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
