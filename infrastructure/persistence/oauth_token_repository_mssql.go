package persistence

import (
	"context"
	"database/sql"
	"time"

	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
)

type OAuthTokenRepositoryMSSQL struct{ db *sql.DB }

func NewOAuthTokenRepositoryMSSQL(db *sql.DB) repository.IOAuthToken {
	return &OAuthTokenRepositoryMSSQL{db: db}
}

func (r *OAuthTokenRepositoryMSSQL) UpsertToken(ctx context.Context, t *model.OAuthToken) error {
	q := `MERGE dbo.[oauth_tokens] AS target
USING (VALUES (@p1, @p2)) AS src(user_id, platform)
ON target.user_id = src.user_id AND target.platform = src.platform
WHEN MATCHED THEN UPDATE SET
    access_token=@p3,
    refresh_token=@p4,
    expires_at=@p5,
    scopes=@p6,
    updated_at=@p7
WHEN NOT MATCHED THEN
    INSERT (user_id, platform, access_token, refresh_token, expires_at, scopes, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7);`
	_, err := r.db.ExecContext(ctx, q, t.UserID, string(t.Platform), t.AccessToken, t.RefreshToken, nullTime(t.ExpiresAt), t.Scopes, time.Now().UTC())
	return err
}

func (r *OAuthTokenRepositoryMSSQL) GetToken(ctx context.Context, userID string, platform model.PlatformID) (*model.OAuthToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, platform, access_token, refresh_token, expires_at, scopes FROM dbo.[oauth_tokens] WHERE user_id=@p1 AND platform=@p2`, userID, string(platform))
	return scanToken(row)
}
