package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lance0/RubyRidge/internal/database/migration"

	"go.uber.org/zap"
)

// RunMigrations applies all pending SQL migrations from migrationsDir.
func RunMigrations(log *zap.Logger, migrationsDir string) error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	return migration.Migrate(dbURL, "file://"+absPath, true, log)
}
