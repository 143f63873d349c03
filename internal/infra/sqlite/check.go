package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// CheckResult reports a successful connectivity check.
type CheckResult struct {
	Path          string
	DriverVersion string
	Checks        int64
}

// CheckConnectivity opens the database file, creates the connectivity_check placeholder
// table if needed and records one check row. It returns how many checks the file holds.
func CheckConnectivity(ctx context.Context, storagePath string) (CheckResult, error) {
	const op = "storage.sqlite.CheckConnectivity"

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return CheckResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return CheckResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS connectivity_check (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			checked_at TEXT NOT NULL
		)`); err != nil {
		return CheckResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO connectivity_check(checked_at) VALUES(?)",
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return CheckResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var count int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM connectivity_check").Scan(&count); err != nil {
		return CheckResult{}, fmt.Errorf("%s: %w", op, err)
	}

	version, _, _ := sqlite3.Version()
	return CheckResult{Path: storagePath, DriverVersion: version, Checks: count}, nil
}
