package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var postgresDDL = []string{
	`CREATE TABLE IF NOT EXISTS platform_connections (
		user_id VARCHAR(128) NOT NULL,
		platform VARCHAR(32) NOT NULL,
		connected BOOLEAN NOT NULL DEFAULT FALSE,
		account_handle TEXT NULL,
		last_checked_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, platform)
	)`,
	`CREATE TABLE IF NOT EXISTS oauth_tokens (
		user_id VARCHAR(128) NOT NULL,
		platform VARCHAR(32) NOT NULL,
		access_token TEXT NOT NULL,
		refresh_token TEXT NULL,
		expires_at TIMESTAMPTZ NULL,
		scopes TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, platform)
	)`,
}

// EnsureSchema creates the tables and adds newer columns when missing.
// Safe to call at startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, ddl := range postgresDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table failed: %w", err)
		}
	}

	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"platform_connections", "account_meta", "ALTER TABLE platform_connections ADD COLUMN account_meta JSONB NOT NULL DEFAULT '{}'::jsonb"},
	}
	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureSchemaMSSQL creates the same tables on SQL Server.
func EnsureSchemaMSSQL(db *sql.DB) error {
	ddl := []string{
		`IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.platform_connections') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[platform_connections] (
        user_id NVARCHAR(128) NOT NULL,
        platform NVARCHAR(32) NOT NULL,
        connected BIT NOT NULL DEFAULT 0,
        account_handle NVARCHAR(255) NULL,
        account_meta NVARCHAR(MAX) NOT NULL DEFAULT '{}',
        last_checked_at DATETIME2 NOT NULL,
        CONSTRAINT PK_platform_connections PRIMARY KEY (user_id, platform)
    );
END`,
		`IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.oauth_tokens') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[oauth_tokens] (
        user_id NVARCHAR(128) NOT NULL,
        platform NVARCHAR(32) NOT NULL,
        access_token NVARCHAR(MAX) NOT NULL,
        refresh_token NVARCHAR(MAX) NULL,
        expires_at DATETIME2 NULL,
        scopes NVARCHAR(MAX) NOT NULL,
        updated_at DATETIME2 NOT NULL,
        CONSTRAINT PK_oauth_tokens PRIMARY KEY (user_id, platform)
    );
END`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create table (mssql): %w", err)
		}
	}
	return nil
}
