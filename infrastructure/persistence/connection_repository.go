package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
)

type ConnectionRepository struct{ db *sql.DB }

func NewConnectionRepository(db *sql.DB) repository.IConnection {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) Upsert(ctx context.Context, c *model.PlatformConnection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	handle, meta, checkedAt, err := connectionArgs(c)
	if err != nil {
		return err
	}
	q := `INSERT INTO platform_connections (user_id, platform, connected, account_handle, account_meta, last_checked_at)
		  VALUES ($1,$2,$3,$4,$5,$6)
		  ON CONFLICT (user_id, platform) DO UPDATE SET
			connected=EXCLUDED.connected,
			account_handle=EXCLUDED.account_handle,
			account_meta=EXCLUDED.account_meta,
			last_checked_at=EXCLUDED.last_checked_at`
	if _, err := r.db.ExecContext(ctx, q, c.UserID, string(c.Platform), c.Connected, handle, meta, checkedAt); err != nil {
		return fmt.Errorf("upsert connection %s/%s: %w", c.UserID, c.Platform, err)
	}
	return nil
}

func (r *ConnectionRepository) Get(ctx context.Context, userID string, platform model.PlatformID) (*model.PlatformConnection, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, platform, connected, account_handle, account_meta, last_checked_at FROM platform_connections WHERE user_id=$1 AND platform=$2`, userID, string(platform))
	return scanConnection(row)
}

func connectionArgs(c *model.PlatformConnection) (sql.NullString, string, time.Time, error) {
	var handle sql.NullString
	if c.AccountHandle != nil {
		handle.Valid = true
		handle.String = *c.AccountHandle
	}
	meta := c.AccountMeta
	if meta == nil {
		meta = map[string]interface{}{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return handle, "", time.Time{}, fmt.Errorf("marshal account meta: %w", err)
	}
	checkedAt := c.LastCheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}
	return handle, string(raw), checkedAt.UTC(), nil
}

func scanConnection(row *sql.Row) (*model.PlatformConnection, error) {
	c := &model.PlatformConnection{}
	var platform string
	var handle sql.NullString
	var meta []byte
	if err := row.Scan(&c.UserID, &platform, &c.Connected, &handle, &meta, &c.LastCheckedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.Platform = model.PlatformID(platform)
	if handle.Valid {
		v := handle.String
		c.AccountHandle = &v
	}
	c.AccountMeta = map[string]interface{}{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &c.AccountMeta); err != nil {
			return nil, fmt.Errorf("decode account meta: %w", err)
		}
	}
	return c, nil
}
