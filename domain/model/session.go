package model

import "github.com/golang-jwt/jwt"

// Session is the authenticated dashboard user.
type Session struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	BearerToken string `json:"-"`
}

// Valid reports whether the session may be used for authenticated calls.
func (s *Session) Valid() bool {
	return s != nil && s.UserID != "" && s.BearerToken != ""
}

// StorageKey is the identity persisted client state is keyed by.
func (s *Session) StorageKey() string {
	if s.Email != "" {
		return s.Email
	}
	return s.UserID
}

// UserClaims are the JWT claims issued by the upstream auth service.
type UserClaims struct {
	jwt.StandardClaims
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}
