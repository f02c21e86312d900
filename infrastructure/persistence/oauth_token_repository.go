package persistence

import (
	"context"
	"database/sql"
	"time"

	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
)

type OAuthTokenRepository struct{ db *sql.DB }

func NewOAuthTokenRepository(db *sql.DB) repository.IOAuthToken {
	return &OAuthTokenRepository{db: db}
}

func (r *OAuthTokenRepository) UpsertToken(ctx context.Context, t *model.OAuthToken) error {
	q := `INSERT INTO oauth_tokens (user_id, platform, access_token, refresh_token, expires_at, scopes, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7)
		  ON CONFLICT (user_id, platform) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			expires_at=EXCLUDED.expires_at,
			scopes=EXCLUDED.scopes,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, t.UserID, string(t.Platform), t.AccessToken, t.RefreshToken, nullTime(t.ExpiresAt), t.Scopes, time.Now().UTC())
	return err
}

func (r *OAuthTokenRepository) GetToken(ctx context.Context, userID string, platform model.PlatformID) (*model.OAuthToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, platform, access_token, refresh_token, expires_at, scopes FROM oauth_tokens WHERE user_id=$1 AND platform=$2`, userID, string(platform))
	return scanToken(row)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func scanToken(row *sql.Row) (*model.OAuthToken, error) {
	tok := &model.OAuthToken{}
	var platform string
	var refresh sql.NullString
	var exp sql.NullTime
	if err := row.Scan(&tok.UserID, &platform, &tok.AccessToken, &refresh, &exp, &tok.Scopes); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	tok.Platform = model.PlatformID(platform)
	tok.RefreshToken = refresh.String
	if exp.Valid {
		tok.ExpiresAt = &exp.Time
	}
	return tok, nil
}
