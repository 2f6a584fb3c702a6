package postgres

import (
	"context"
	"fmt"
	"log/slog"
)

const customersTableDDL = `
        CREATE TABLE IF NOT EXISTS customers (
            id            BIGINT PRIMARY KEY,
            first_name    TEXT NOT NULL,
            last_name     TEXT NOT NULL,
            date_of_birth TIMESTAMPTZ NOT NULL
        )`

// EnsureSchema creates the customers table when it does not exist yet.
func EnsureSchema(ctx context.Context, db DBTX, logger *slog.Logger) error {
	logger.Info("Ensuring customers table exists...")
	if _, err := db.Exec(ctx, customersTableDDL); err != nil {
		logger.Error("Failed to create customers table", "error", err)
		return fmt.Errorf("failed to create customers table: %w", err)
	}
	return nil
}
