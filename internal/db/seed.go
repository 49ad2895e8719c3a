package db

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/domain/auth"
	"ems/internal/platform/config"
)

// Seed creates the initial admin account when the employees table is empty.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := strings.TrimSpace(cfg.SeedAdminEmail)
	password := cfg.SeedAdminPassword
	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "ChangeMe123!"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO employees (employee_code, email, password_hash, first_name, last_name, role, department, "position")
    VALUES ('EMP001', $1, $2, 'System', 'Admin', $3, 'Administration', 'Administrator')
  `, email, hash, auth.RoleAdmin)
	if err != nil {
		return err
	}

	slog.Info("seeded initial admin account", "email", email)
	return nil
}
