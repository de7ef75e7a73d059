package swifthub

import "embed"

// MigrationsFS holds the SQL migrations applied on bot startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
