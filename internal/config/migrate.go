package config

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// RunMigration applies pending schema migrations at startup. The source
// defaults to the db/migrations directory next to the binary.
func RunMigration(config *koanf.Koanf, log *zap.Logger) {
	migrationURL := config.String("MIGRATION_URL")
	if migrationURL == "" {
		migrationURL = "file://db/migrations"
	}

	m, err := migrate.New(migrationURL, config.String("POSTGRES_URL"))
	if err != nil {
		log.Fatal("failed to create migrate instance", zap.Error(err))
	}
	defer m.Close()

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	log.Info("database migrations are up to date")
}
