package model

import "time"

// PublishStatus is the state of the single operation slot per (user, platform).
type PublishStatus string

const (
	StatusDraft      PublishStatus = "draft"
	StatusGenerating PublishStatus = "generating"
	StatusEnriching  PublishStatus = "enriching"
	StatusPublishing PublishStatus = "publishing"
	StatusSucceeded  PublishStatus = "succeeded"
	StatusFailed     PublishStatus = "failed"
)

// Busy reports whether an operation is in flight.
func (s PublishStatus) Busy() bool {
	return s == StatusGenerating || s == StatusEnriching || s == StatusPublishing
}

// ThumbnailCandidate is one generated thumbnail with its estimated click-through score.
type ThumbnailCandidate struct {
	URL      string  `json:"url"`
	CTRScore float64 `json:"ctr_score"`
	Style    string  `json:"style,omitempty"`
}

// ContentDraft is in-progress, unpublished content for one platform.
type ContentDraft struct {
	Title             string               `json:"title"`
	Body              string               `json:"body"`
	MediaURL          string               `json:"media_url"`
	Hashtags          []string             `json:"hashtags,omitempty"`
	Thumbnails        []ThumbnailCandidate `json:"thumbnails,omitempty"`
	SelectedThumbnail int                  `json:"selected_thumbnail"`
}

// NewDraft returns an empty draft with no thumbnail selected.
func NewDraft() ContentDraft {
	return ContentDraft{SelectedThumbnail: -1}
}

// SelectedThumbnailURL returns the chosen thumbnail, if any.
func (d ContentDraft) SelectedThumbnailURL() string {
	if d.SelectedThumbnail < 0 || d.SelectedThumbnail >= len(d.Thumbnails) {
		return ""
	}
	return d.Thumbnails[d.SelectedThumbnail].URL
}

// IsEmpty reports whether nothing has been typed or generated yet.
func (d ContentDraft) IsEmpty() bool {
	return d.Title == "" && d.Body == "" && d.MediaURL == "" && len(d.Thumbnails) == 0
}

// PublishOperation is the current slot state for one (user, platform).
type PublishOperation struct {
	UserID    string        `json:"user_id"`
	Platform  PlatformID    `json:"platform"`
	Draft     ContentDraft  `json:"draft"`
	Status    PublishStatus `json:"status"`
	LastError string        `json:"last_error,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// PublishResult is what the upstream returns for a publish call.
type PublishResult struct {
	Success bool   `json:"success"`
	PostURL string `json:"post_url,omitempty"`
	PostID  string `json:"post_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// GenerationContext is what the AI content endpoint needs from the profile.
type GenerationContext struct {
	Platform PlatformID
	Profile  BusinessProfile
	Topic    string
}
