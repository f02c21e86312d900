package dto

import "autopost-dashboard/domain/model"

// SaveProfileRequest is the body of PUT /api/{platform}/profile.
type SaveProfileRequest struct {
	Domain              string `json:"domain"`
	BusinessType        string `json:"businessType"`
	BusinessDescription string `json:"businessDescription"`
	TargetAudience      string `json:"targetAudience"`
	ContentStyle        string `json:"contentStyle"`
}

// GenerateRequest is the body of POST /api/{platform}/generate.
type GenerateRequest struct {
	Topic string `json:"topic"`
}

// UpdateDraftRequest is the body of PUT /api/{platform}/draft.
type UpdateDraftRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	MediaURL string   `json:"media_url"`
	Hashtags []string `json:"hashtags"`
}

// SelectThumbnailRequest is the body of POST /api/youtube/thumbnail.
type SelectThumbnailRequest struct {
	Index int `json:"index"`
}

// PublishRequest is the body of POST /api/{platform}/publish. Only the fields
// of the target platform are read.
type PublishRequest struct {
	Kind          string `json:"kind,omitempty"` // youtube: "video" (default) or "community"
	PageID        string `json:"page_id,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	Title         string `json:"title,omitempty"`
	VideoURL      string `json:"video_url,omitempty"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	Privacy       string `json:"privacy,omitempty"`
	Subreddit     string `json:"subreddit,omitempty"`
	PhoneNumberID string `json:"phone_number_id,omitempty"`
}

// AutomationRequest is the body of POST /api/{platform}/automation.
type AutomationRequest struct {
	PostsPerDay int    `json:"posts_per_day"`
	Timezone    string `json:"timezone"`
}

// PlatformOverview is one row of GET /api/workflow.
type PlatformOverview struct {
	Platform   model.PlatformID          `json:"platform"`
	Profile    model.BusinessProfile     `json:"profile"`
	Connection *model.PlatformConnection `json:"connection"`
	NextStep   string                    `json:"next_step"`
	PostsToday int64                     `json:"posts_today"`
}
