// Package waitlistdb holds all the migrations for the waitlist database
package waitlistdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection all waitlist database migrations register into.
var Migrations = migrate.NewMigrations()
