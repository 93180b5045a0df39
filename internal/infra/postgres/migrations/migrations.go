package migrations

import (
	_ "embed"

	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_catalog.sql
var createCatalogSQL string

//go:embed 0002_create_users.sql
var createUsersSQL string

//go:embed 0003_create_progress.sql
var createProgressSQL string

var Migrations = migrate.NewMigrations()
