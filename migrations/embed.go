// Package migrations embeds the SQL migration files into the binary and
// registers them with the database layer.
package migrations

import (
	"embed"

	"github.com/conduitiot/conduit-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
