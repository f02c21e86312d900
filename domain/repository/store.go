package repository

import (
	"context"
	"time"

	"autopost-dashboard/domain/model"
)

// IKeyValue is the persisted client-side state: profiles, callback markers
// and counters. Values survive a full page reload.
type IKeyValue interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetIfAbsent stores value only if key does not exist and reports whether it did.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Incr increments an integer counter, setting ttl when the key is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
}

// IConnection persists PlatformConnection records keyed by (user, platform).
// Records are overwritten, never deleted.
type IConnection interface {
	// Get returns nil, nil when no record exists.
	Get(ctx context.Context, userID string, platform model.PlatformID) (*model.PlatformConnection, error)
	Upsert(ctx context.Context, conn *model.PlatformConnection) error
}

// IProfile persists business profiles keyed by user storage key and profile scope.
type IProfile interface {
	// Get returns nil, nil when no profile was ever saved.
	Get(ctx context.Context, storageKey, scope string) (*model.BusinessProfile, error)
	Save(ctx context.Context, storageKey, scope string, profile model.BusinessProfile) error
}

// IOAuthToken stores tokens obtained by a direct code exchange.
type IOAuthToken interface {
	UpsertToken(ctx context.Context, t *model.OAuthToken) error
	GetToken(ctx context.Context, userID string, platform model.PlatformID) (*model.OAuthToken, error)
}

// INotifier receives every user-visible event.
type INotifier interface {
	Push(userID string, severity model.Severity, message string) model.Notification
}
