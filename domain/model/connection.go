package model

import (
	"errors"
	"time"
)

// PlatformConnection is the verified link between a user and one platform account.
type PlatformConnection struct {
	UserID        string                 `json:"user_id"`
	Platform      PlatformID             `json:"platform"`
	Connected     bool                   `json:"connected"`
	AccountHandle *string                `json:"account_handle"`
	AccountMeta   map[string]interface{} `json:"account_meta,omitempty"`
	LastCheckedAt time.Time              `json:"last_checked_at"`
}

var ErrConnectedWithoutHandle = errors.New("connected platform requires an account handle")

// Validate enforces that a connected account always carries a handle.
func (c *PlatformConnection) Validate() error {
	if c.Connected && (c.AccountHandle == nil || *c.AccountHandle == "") {
		return ErrConnectedWithoutHandle
	}
	return nil
}

// Handle returns the account handle or an empty string.
func (c *PlatformConnection) Handle() string {
	if c == nil || c.AccountHandle == nil {
		return ""
	}
	return *c.AccountHandle
}

// IsConnected is nil safe.
func (c *PlatformConnection) IsConnected() bool {
	return c != nil && c.Connected
}

// Disconnected builds the safe default used when no state is known.
func Disconnected(userID string, platform PlatformID, at time.Time) PlatformConnection {
	return PlatformConnection{
		UserID:        userID,
		Platform:      platform,
		Connected:     false,
		AccountMeta:   map[string]interface{}{},
		LastCheckedAt: at,
	}
}

// Connected builds a connected record for the given handle.
func Connected(userID string, platform PlatformID, handle string, meta map[string]interface{}, at time.Time) PlatformConnection {
	if meta == nil {
		meta = map[string]interface{}{}
	}
	h := handle
	return PlatformConnection{
		UserID:        userID,
		Platform:      platform,
		Connected:     true,
		AccountHandle: &h,
		AccountMeta:   meta,
		LastCheckedAt: at,
	}
}
