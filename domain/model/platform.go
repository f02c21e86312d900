package model

import (
	"fmt"
	"strings"
)

// PlatformID identifies an external social platform a user can connect.
type PlatformID string

const (
	PlatformFacebook  PlatformID = "facebook"
	PlatformInstagram PlatformID = "instagram"
	PlatformYouTube   PlatformID = "youtube"
	PlatformWhatsApp  PlatformID = "whatsapp"
	PlatformReddit    PlatformID = "reddit"
)

// AllPlatforms lists every supported platform in dashboard order.
var AllPlatforms = []PlatformID{
	PlatformFacebook,
	PlatformInstagram,
	PlatformYouTube,
	PlatformWhatsApp,
	PlatformReddit,
}

// ParsePlatform normalizes a platform id coming from a path or query string.
func ParsePlatform(raw string) (PlatformID, error) {
	p := PlatformID(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range AllPlatforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported platform: %q", raw)
}

// DisplayName is the human readable platform name used in notifications.
func (p PlatformID) DisplayName() string {
	switch p {
	case PlatformFacebook:
		return "Facebook"
	case PlatformInstagram:
		return "Instagram"
	case PlatformYouTube:
		return "YouTube"
	case PlatformWhatsApp:
		return "WhatsApp"
	case PlatformReddit:
		return "Reddit"
	}
	return string(p)
}

// ProfileScope returns the key under which the business profile is stored.
// Facebook and Instagram share one profile; the others are independent.
func (p PlatformID) ProfileScope() string {
	if p == PlatformFacebook || p == PlatformInstagram {
		return "meta"
	}
	return string(p)
}

// UsesCodeExchange reports whether the platform returns an authorization
// code (code & state) instead of a simple connected flag.
func (p PlatformID) UsesCodeExchange() bool {
	return p == PlatformYouTube
}
