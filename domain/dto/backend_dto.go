package dto

// Res is the generic error envelope returned by this service.
type Res struct {
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}

// AuthorizeQuery is sent to GET /api/oauth/{platform}/authorize.
type AuthorizeQuery struct {
	CallbackPath string `url:"callback"`
	UserID       string `url:"user_id,omitempty"`
}

// AuthorizeResponse is returned by the upstream authorization-url endpoint.
type AuthorizeResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url"`
	AuthURL     string `json:"auth_url,omitempty"`
	Error       string `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
}

// OAuthCallbackRequest is posted to POST /api/{platform}/oauth-callback.
type OAuthCallbackRequest struct {
	Code        string `json:"code"`
	State       string `json:"state"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

// ConnectionInfo is the connection payload shared by the callback and status endpoints.
type ConnectionInfo struct {
	Success      bool                   `json:"success"`
	Connected    bool                   `json:"connected"`
	Username     string                 `json:"username,omitempty"`
	AccountName  string                 `json:"account_name,omitempty"`
	ChannelTitle string                 `json:"channel_title,omitempty"`
	ChannelID    string                 `json:"channel_id,omitempty"`
	PageName     string                 `json:"page_name,omitempty"`
	AccountType  string                 `json:"account_type,omitempty"`
	Pages        []PageInfo             `json:"pages,omitempty"`
	Meta         map[string]interface{} `json:"meta,omitempty"`
	Error        string                 `json:"error,omitempty"`
	Message      string                 `json:"message,omitempty"`
}

// PageInfo is a Facebook page the connected account manages.
type PageInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StatusQuery is sent to GET /api/{platform}/connection-status.
type StatusQuery struct {
	UserID string `url:"user_id,omitempty"`
}

// GenerateContentRequest is posted to POST /api/content/generate.
type GenerateContentRequest struct {
	Platform            string `json:"platform"`
	Domain              string `json:"domain"`
	BusinessType        string `json:"business_type"`
	BusinessDescription string `json:"business_description"`
	TargetAudience      string `json:"target_audience"`
	ContentStyle        string `json:"content_style"`
	Topic               string `json:"topic,omitempty"`
}

type GenerateContentResponse struct {
	Success  bool     `json:"success"`
	Title    string   `json:"title,omitempty"`
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags,omitempty"`
	Error    string   `json:"error,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// GenerateImageRequest is posted to POST /api/ai/generate-image.
type GenerateImageRequest struct {
	Prompt   string `json:"prompt"`
	Platform string `json:"platform"`
	Style    string `json:"style,omitempty"`
}

type GenerateImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
}

// GenerateThumbnailsRequest is posted to POST /api/ai/generate-thumbnails.
type GenerateThumbnailsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Count       int    `json:"count"`
}

type Thumbnail struct {
	URL      string  `json:"url"`
	CTRScore float64 `json:"ctr_score"`
	Style    string  `json:"style,omitempty"`
}

type GenerateThumbnailsResponse struct {
	Success    bool        `json:"success"`
	Thumbnails []Thumbnail `json:"thumbnails"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// ManualPostRequest is posted to POST /api/post/manual.
type ManualPostRequest struct {
	Platform      string   `json:"platform"`
	Content       string   `json:"content"`
	Title         string   `json:"title,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Hashtags      []string `json:"hashtags,omitempty"`
	PageID        string   `json:"page_id,omitempty"`
	Subreddit     string   `json:"subreddit,omitempty"`
	PhoneNumberID string   `json:"phone_number_id,omitempty"`
}

// YouTubeUploadRequest is posted to POST /api/youtube/upload.
type YouTubeUploadRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"video_url"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	Privacy      string   `json:"privacy,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// YouTubeCommunityPostRequest is posted to POST /api/youtube/community-post.
type YouTubeCommunityPostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

type PublishResponse struct {
	Success bool   `json:"success"`
	PostURL string `json:"post_url,omitempty"`
	PostID  string `json:"post_id,omitempty"`
	VideoID string `json:"video_id,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// SetupAutoPostingRequest is posted to POST /api/automation/setup-auto-posting.
type SetupAutoPostingRequest struct {
	Platform       string `json:"platform"`
	PostsPerDay    int    `json:"posts_per_day"`
	Timezone       string `json:"timezone,omitempty"`
	Domain         string `json:"domain"`
	BusinessType   string `json:"business_type"`
	TargetAudience string `json:"target_audience"`
	ContentStyle   string `json:"content_style"`
}

type SetupAutoPostingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
