package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
)

// Key/value backed stores. Profiles always live here; connections and tokens
// fall back here when no SQL database is configured.

func connectionKey(userID string, platform model.PlatformID) string {
	return fmt.Sprintf("connection:%s:%s", userID, platform)
}

func profileKey(storageKey, scope string) string {
	return fmt.Sprintf("profile:%s:%s", storageKey, scope)
}

func tokenKey(userID string, platform model.PlatformID) string {
	return fmt.Sprintf("oauth_token:%s:%s", userID, platform)
}

func getJSON(ctx context.Context, kv repository.IKeyValue, key string, out interface{}) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(ctx context.Context, kv repository.IKeyValue, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(raw), 0)
}

type KVConnectionRepository struct{ kv repository.IKeyValue }

func NewKVConnectionRepository(kv repository.IKeyValue) repository.IConnection {
	return &KVConnectionRepository{kv: kv}
}

func (r *KVConnectionRepository) Get(ctx context.Context, userID string, platform model.PlatformID) (*model.PlatformConnection, error) {
	var c model.PlatformConnection
	ok, err := getJSON(ctx, r.kv, connectionKey(userID, platform), &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (r *KVConnectionRepository) Upsert(ctx context.Context, c *model.PlatformConnection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return setJSON(ctx, r.kv, connectionKey(c.UserID, c.Platform), c)
}

type ProfileRepository struct{ kv repository.IKeyValue }

func NewProfileRepository(kv repository.IKeyValue) repository.IProfile {
	return &ProfileRepository{kv: kv}
}

func (r *ProfileRepository) Get(ctx context.Context, storageKey, scope string) (*model.BusinessProfile, error) {
	var p model.BusinessProfile
	ok, err := getJSON(ctx, r.kv, profileKey(storageKey, scope), &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Save(ctx context.Context, storageKey, scope string, profile model.BusinessProfile) error {
	return setJSON(ctx, r.kv, profileKey(storageKey, scope), profile)
}

type KVTokenRepository struct{ kv repository.IKeyValue }

func NewKVTokenRepository(kv repository.IKeyValue) repository.IOAuthToken {
	return &KVTokenRepository{kv: kv}
}

func (r *KVTokenRepository) UpsertToken(ctx context.Context, t *model.OAuthToken) error {
	return setJSON(ctx, r.kv, tokenKey(t.UserID, t.Platform), t)
}

func (r *KVTokenRepository) GetToken(ctx context.Context, userID string, platform model.PlatformID) (*model.OAuthToken, error) {
	var t model.OAuthToken
	ok, err := getJSON(ctx, r.kv, tokenKey(userID, platform), &t)
	if err != nil || !ok {
		return nil, err
	}
	return &t, nil
}
