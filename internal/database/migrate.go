package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gym_club_backend/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// FindMigrationsDir walks up from the working directory looking for a
// migrations/ directory. An explicit path wins when it exists.
func FindMigrationsDir(explicit string) (string, error) {
	if explicit != "" {
		if info, err := os.Stat(explicit); err == nil && info.IsDir() {
			return filepath.Abs(explicit)
		}
		return "", fmt.Errorf("migrations directory %s not found", explicit)
	}

	current, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		candidate := filepath.Join(current, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return "", errors.New("migrations directory not found")
}

// Migrate applies ("up") or reverts ("down") all migrations in dir.
func Migrate(databaseURL, dir, direction string) error {
	m, err := migrate.New("file://"+filepath.ToSlash(dir), databaseURL)
	if err != nil {
		return fmt.Errorf("could not initialise migrations: %w", err)
	}
	defer m.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	version, dirty, verr := m.Version()
	if verr == nil {
		utils.LogInfo("Migrations applied", map[string]interface{}{"direction": direction, "version": version, "dirty": dirty})
	}
	return nil
}
