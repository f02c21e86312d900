package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"autopost-dashboard/domain/model"
	"autopost-dashboard/infrastructure/logger"
)

// SessionSource is read-only access to persisted client state (cookies).
type SessionSource interface {
	Lookup(key string) (string, bool)
}

type ISessionStore interface {
	// Resolve never fails; it returns nil when no valid session exists.
	Resolve(ctx context.Context, current *model.Session, source SessionSource) *model.Session
	ProbeOrder() []string
}

var (
	sessionKeys  = []string{"user", "userData", "authUser", "currentUser"}
	tokenKeys    = []string{"token", "authToken", "access_token"}
	userIDFields = []string{"id", "_id", "userId", "user_id"}
)

type sessionStore struct{}

func NewSessionStore() ISessionStore {
	return &sessionStore{}
}

func (s *sessionStore) ProbeOrder() []string {
	out := make([]string, len(sessionKeys))
	copy(out, sessionKeys)
	return out
}

func (s *sessionStore) Resolve(ctx context.Context, current *model.Session, source SessionSource) *model.Session {
	if current.Valid() {
		return current
	}
	if source == nil {
		return nil
	}
	for _, key := range sessionKeys {
		raw, ok := source.Lookup(key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if sess := parseCandidate(raw, source); sess != nil {
			return sess
		}
		logger.GetLogger().WithField("key", key).Debug("Ignoring invalid session candidate")
	}
	return nil
}

func parseCandidate(raw string, source SessionSource) *model.Session {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil
	}
	id := stringField(fields, userIDFields...)
	if id == "" {
		return nil
	}
	token := stringField(fields, "token", "access_token")
	if token == "" {
		for _, key := range tokenKeys {
			if v, ok := source.Lookup(key); ok && strings.TrimSpace(v) != "" {
				token = strings.TrimSpace(v)
				break
			}
		}
	}
	sess := &model.Session{
		UserID:      id,
		Email:       stringField(fields, "email"),
		DisplayName: stringField(fields, "name", "displayName", "username"),
		BearerToken: token,
	}
	if !sess.Valid() {
		return nil
	}
	return sess
}

// stringField returns the first non-empty field, accepting numeric ids.
func stringField(fields map[string]interface{}, names ...string) string {
	for _, name := range names {
		switch v := fields[name].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
