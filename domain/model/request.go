package model

import (
	"strings"

	"autopost-dashboard/domain/apperror"
)

// PlatformRequest is a publish request carrying only the fields its platform
// needs. The set of variants is closed: every RequestVisitor must handle each
// one, so adding a platform fails to compile until all visitors cover it.
type PlatformRequest interface {
	Platform() PlatformID
	// Validate checks mandatory fields before any network call.
	Validate(draft ContentDraft) error
	Accept(v RequestVisitor) error
}

// RequestVisitor is implemented by anything that must treat each platform differently.
type RequestVisitor interface {
	VisitFacebook(r FacebookRequest) error
	VisitInstagram(r InstagramRequest) error
	VisitYouTube(r YouTubeRequest) error
	VisitYouTubeCommunity(r YouTubeCommunityRequest) error
	VisitWhatsApp(r WhatsAppRequest) error
	VisitReddit(r RedditRequest) error
}

type FacebookRequest struct {
	PageID string `json:"page_id,omitempty"`
}

type InstagramRequest struct {
	ImageURL string `json:"image_url"`
}

type YouTubeRequest struct {
	Title        string `json:"title"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Privacy      string `json:"privacy,omitempty"`
}

type YouTubeCommunityRequest struct {
	ImageURL string `json:"image_url,omitempty"`
}

type WhatsAppRequest struct {
	PhoneNumberID string `json:"phone_number_id,omitempty"`
}

type RedditRequest struct {
	Subreddit string `json:"subreddit"`
	Title     string `json:"title"`
}

func (FacebookRequest) Platform() PlatformID         { return PlatformFacebook }
func (InstagramRequest) Platform() PlatformID        { return PlatformInstagram }
func (YouTubeRequest) Platform() PlatformID          { return PlatformYouTube }
func (YouTubeCommunityRequest) Platform() PlatformID { return PlatformYouTube }
func (WhatsAppRequest) Platform() PlatformID         { return PlatformWhatsApp }
func (RedditRequest) Platform() PlatformID           { return PlatformReddit }

func (r FacebookRequest) Accept(v RequestVisitor) error         { return v.VisitFacebook(r) }
func (r InstagramRequest) Accept(v RequestVisitor) error        { return v.VisitInstagram(r) }
func (r YouTubeRequest) Accept(v RequestVisitor) error          { return v.VisitYouTube(r) }
func (r YouTubeCommunityRequest) Accept(v RequestVisitor) error { return v.VisitYouTubeCommunity(r) }
func (r WhatsAppRequest) Accept(v RequestVisitor) error         { return v.VisitWhatsApp(r) }
func (r RedditRequest) Accept(v RequestVisitor) error           { return v.VisitReddit(r) }

func requireBody(d ContentDraft) error {
	if strings.TrimSpace(d.Body) == "" {
		return apperror.Validation("Post content is required")
	}
	return nil
}

func (r FacebookRequest) Validate(d ContentDraft) error { return requireBody(d) }

func (r InstagramRequest) Validate(d ContentDraft) error {
	if strings.TrimSpace(r.ImageURL) == "" && strings.TrimSpace(d.MediaURL) == "" {
		return apperror.Validation("An image is required for Instagram posts")
	}
	return requireBody(d)
}

func (r YouTubeRequest) Validate(d ContentDraft) error {
	if strings.TrimSpace(firstNonEmpty(r.Title, d.Title)) == "" {
		return apperror.Validation("A video title is required")
	}
	if strings.TrimSpace(firstNonEmpty(r.VideoURL, d.MediaURL)) == "" {
		return apperror.Validation("A video URL is required")
	}
	if len(d.Thumbnails) > 0 && r.ThumbnailURL == "" && d.SelectedThumbnailURL() == "" {
		return apperror.Validation("Select a thumbnail before publishing")
	}
	return nil
}

func (r YouTubeCommunityRequest) Validate(d ContentDraft) error { return requireBody(d) }

func (r WhatsAppRequest) Validate(d ContentDraft) error { return requireBody(d) }

func (r RedditRequest) Validate(d ContentDraft) error {
	if strings.TrimSpace(r.Subreddit) == "" {
		return apperror.Validation("A subreddit is required")
	}
	if strings.TrimSpace(firstNonEmpty(r.Title, d.Title)) == "" {
		return apperror.Validation("A post title is required")
	}
	return requireBody(d)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string { return firstNonEmpty(values...) }
