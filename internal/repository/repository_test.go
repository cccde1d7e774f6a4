package repository_test

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	postgresImage = "postgres:17.6-alpine3.22"
	migrationsDir = "../migrations"
)

// startPostgres runs a throwaway Postgres with every up migration applied in
// file name order.
func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	migrations, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return nil, "", fmt.Errorf("filepath.Glob: %w", err)
	}
	if len(migrations) == 0 {
		return nil, "", fmt.Errorf("no migrations in %s", migrationsDir)
	}

	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("pos"),
		postgres.WithUsername("pos"),
		postgres.WithPassword("pos"),
		postgres.WithInitScripts(migrations...),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}
