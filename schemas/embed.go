// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains all SQL migration files, applied in name order
// by database.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS
