package database

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/AsonyaGh/Bina/internal/database/migration"
)

// RunMigrations applies every pending migration from migrationsDir.
func RunMigrations(dbURL, migrationsDir string, log *zap.Logger) error {
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations dir: %w", err)
	}

	return migration.Migrate(dbURL, "file://"+absPath, log)
}
