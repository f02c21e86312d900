package model

import "time"

// BusinessProfile drives AI content generation for a platform scope.
type BusinessProfile struct {
	Domain              string     `json:"domain"`
	BusinessType        string     `json:"businessType"`
	BusinessDescription string     `json:"businessDescription"`
	TargetAudience      string     `json:"targetAudience"`
	ContentStyle        string     `json:"contentStyle"`
	IsConfigured        bool       `json:"isConfigured"`
	SavedAt             *time.Time `json:"savedAt,omitempty"`
}

// DefaultProfile is what a user sees before the first explicit save.
func DefaultProfile() BusinessProfile {
	return BusinessProfile{
		ContentStyle:   "engaging",
		TargetAudience: "general",
	}
}
