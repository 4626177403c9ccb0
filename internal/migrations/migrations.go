package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/goran-ethernal/BlockPipe/internal/db"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Load returns the migrations of the given dialect ordered by file name.
// fs.ReadDir sorts entries, the numeric prefixes define the order.
func Load(dialect db.Dialect) ([]db.Migration, error) {
	dir := "sqlite"
	if dialect == db.Postgres {
		dir = "postgres"
	}

	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s migrations: %w", dir, err)
	}

	migrations := make([]db.Migration, 0, len(entries))
	for _, entry := range entries {
		content, err := fs.ReadFile(files, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, db.Migration{ID: entry.Name(), SQL: string(content)})
	}

	return migrations, nil
}

// RunMigrations applies the task store and domain store schema.
func RunMigrations(log *logger.Logger, database *sql.DB, dialect db.Dialect) error {
	migrations, err := Load(dialect)
	if err != nil {
		return err
	}

	return db.RunMigrationsDB(log, database, dialect, migrations)
}
