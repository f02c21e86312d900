package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
)

type ConnectionRepositoryMSSQL struct{ db *sql.DB }

func NewConnectionRepositoryMSSQL(db *sql.DB) repository.IConnection {
	return &ConnectionRepositoryMSSQL{db: db}
}

func (r *ConnectionRepositoryMSSQL) Upsert(ctx context.Context, c *model.PlatformConnection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	handle, meta, checkedAt, err := connectionArgs(c)
	if err != nil {
		return err
	}
	// MERGE upsert by (user_id, platform)
	q := `MERGE dbo.[platform_connections] AS target
USING (VALUES (@p1, @p2)) AS src(user_id, platform)
ON target.user_id = src.user_id AND target.platform = src.platform
WHEN MATCHED THEN UPDATE SET
    connected=@p3,
    account_handle=@p4,
    account_meta=@p5,
    last_checked_at=@p6
WHEN NOT MATCHED THEN
    INSERT (user_id, platform, connected, account_handle, account_meta, last_checked_at)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6);`
	if _, err := r.db.ExecContext(ctx, q, c.UserID, string(c.Platform), c.Connected, handle, meta, checkedAt); err != nil {
		return fmt.Errorf("upsert connection %s/%s (mssql): %w", c.UserID, c.Platform, err)
	}
	return nil
}

func (r *ConnectionRepositoryMSSQL) Get(ctx context.Context, userID string, platform model.PlatformID) (*model.PlatformConnection, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, platform, connected, account_handle, account_meta, last_checked_at FROM dbo.[platform_connections] WHERE user_id=@p1 AND platform=@p2`, userID, string(platform))
	return scanConnection(row)
}
