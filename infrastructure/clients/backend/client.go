package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
	"autopost-dashboard/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

// Client talks to the upstream auto-posting API on behalf of a session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an upstream client. A zero timeout keeps the transport default.
func NewClient(baseURL string, timeout time.Duration) repository.IBackend {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying http.Client (tests, custom transports).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (e errorBody) text() string {
	return model.FirstNonEmpty(e.Message, e.Error, e.Detail)
}

func (c *Client) do(ctx context.Context, session *model.Session, method, path string, q interface{}, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path
	if q != nil {
		values, err := query.Values(q)
		if err != nil {
			return fmt.Errorf("encode query for %s: %w", path, err)
		}
		if encoded := values.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body for %s: %w", path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil && session.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+session.BearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("path", path).Warn("upstream request failed")
		return apperror.BackendUnavailable("Service temporarily unavailable", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.BackendUnavailable("Service temporarily unavailable", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classify(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperror.Wrap(apperror.KindUpstream, "Unexpected response from server", err)
	}
	return nil
}

func classify(status int, raw []byte) error {
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	msg := eb.text()
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperror.NotAuthenticated(model.FirstNonEmpty(msg, "Please log in again"))
	case status == http.StatusNotFound:
		return apperror.NotFound(model.FirstNonEmpty(msg, "Not found"))
	case status == http.StatusConflict:
		return apperror.Conflict(model.FirstNonEmpty(msg, "Operation already in progress"))
	case status >= 500:
		return apperror.BackendUnavailable(model.FirstNonEmpty(msg, "Service temporarily unavailable"), fmt.Errorf("upstream status %d", status))
	}
	return apperror.Wrap(apperror.KindUpstream, msg, fmt.Errorf("upstream status %d", status))
}

// failed converts a 2xx body with success=false into an upstream error.
func failed(success bool, errText, message string) error {
	if success {
		return nil
	}
	return apperror.New(apperror.KindUpstream, model.FirstNonEmpty(errText, message))
}

func (c *Client) AuthorizationURL(ctx context.Context, session *model.Session, platform model.PlatformID, callbackPath string) (string, error) {
	var res dto.AuthorizeResponse
	q := dto.AuthorizeQuery{CallbackPath: callbackPath, UserID: session.UserID}
	if err := c.do(ctx, session, http.MethodGet, fmt.Sprintf("/api/oauth/%s/authorize", platform), q, nil, &res); err != nil {
		return "", err
	}
	if err := failed(res.Success, res.Error, res.Message); err != nil {
		return "", err
	}
	redirect := model.FirstNonEmpty(res.RedirectURL, res.AuthURL)
	if redirect == "" {
		return "", apperror.New(apperror.KindUpstream, "Authorization URL missing from response")
	}
	return redirect, nil
}

func (c *Client) ExchangeCode(ctx context.Context, session *model.Session, platform model.PlatformID, req dto.OAuthCallbackRequest) (*dto.ConnectionInfo, error) {
	var res dto.ConnectionInfo
	if err := c.do(ctx, session, http.MethodPost, fmt.Sprintf("/api/%s/oauth-callback", platform), nil, req, &res); err != nil {
		return nil, err
	}
	if err := failed(res.Success, res.Error, res.Message); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ConnectionStatus(ctx context.Context, session *model.Session, platform model.PlatformID) (*dto.ConnectionInfo, error) {
	var res dto.ConnectionInfo
	q := dto.StatusQuery{UserID: session.UserID}
	if err := c.do(ctx, session, http.MethodGet, fmt.Sprintf("/api/%s/connection-status", platform), q, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GenerateContent(ctx context.Context, session *model.Session, req dto.GenerateContentRequest) (*dto.GenerateContentResponse, error) {
	var res dto.GenerateContentResponse
	if err := c.do(ctx, session, http.MethodPost, "/api/content/generate", nil, req, &res); err != nil {
		return nil, err
	}
	if err := failed(res.Success, res.Error, res.Message); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GenerateImage(ctx context.Context, session *model.Session, req dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	var res dto.GenerateImageResponse
	if err := c.do(ctx, session, http.MethodPost, "/api/ai/generate-image", nil, req, &res); err != nil {
		return nil, err
	}
	if err := failed(res.Success, res.Error, res.Message); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GenerateThumbnails(ctx context.Context, session *model.Session, req dto.GenerateThumbnailsRequest) (*dto.GenerateThumbnailsResponse, error) {
	var res dto.GenerateThumbnailsResponse
	if err := c.do(ctx, session, http.MethodPost, "/api/ai/generate-thumbnails", nil, req, &res); err != nil {
		return nil, err
	}
	if err := failed(res.Success, res.Error, res.Message); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SetupAutoPosting(ctx context.Context, session *model.Session, req dto.SetupAutoPostingRequest) (*dto.SetupAutoPostingResponse, error) {
	var res dto.SetupAutoPostingResponse
	if err := c.do(ctx, session, http.MethodPost, "/api/automation/setup-auto-posting", nil, req, &res); err != nil {
		return nil, err
	}
	if err := failed(res.Success, res.Error, res.Message); err != nil {
		return nil, err
	}
	return &res, nil
}

// Publish routes the request to the endpoint of its platform variant.
func (c *Client) Publish(ctx context.Context, session *model.Session, req model.PlatformRequest, draft model.ContentDraft) (*model.PublishResult, error) {
	v := &publishVisitor{client: c, ctx: ctx, session: session, draft: draft}
	if err := req.Accept(v); err != nil {
		return nil, err
	}
	return v.result, nil
}

type publishVisitor struct {
	client  *Client
	ctx     context.Context
	session *model.Session
	draft   model.ContentDraft
	result  *model.PublishResult
}

func (v *publishVisitor) post(path string, body interface{}) error {
	var res dto.PublishResponse
	if err := v.client.do(v.ctx, v.session, http.MethodPost, path, nil, body, &res); err != nil {
		return err
	}
	if err := failed(res.Success, res.Error, res.Message); err != nil {
		return err
	}
	v.result = &model.PublishResult{
		Success: true,
		PostURL: res.PostURL,
		PostID:  model.FirstNonEmpty(res.PostID, res.VideoID),
	}
	return nil
}

func (v *publishVisitor) manual(platform model.PlatformID) dto.ManualPostRequest {
	return dto.ManualPostRequest{
		Platform: string(platform),
		Content:  v.draft.Body,
		Title:    v.draft.Title,
		ImageURL: v.draft.MediaURL,
		Hashtags: v.draft.Hashtags,
	}
}

func (v *publishVisitor) VisitFacebook(r model.FacebookRequest) error {
	body := v.manual(model.PlatformFacebook)
	body.PageID = r.PageID
	return v.post("/api/post/manual", body)
}

func (v *publishVisitor) VisitInstagram(r model.InstagramRequest) error {
	body := v.manual(model.PlatformInstagram)
	body.ImageURL = model.FirstNonEmpty(r.ImageURL, v.draft.MediaURL)
	return v.post("/api/post/manual", body)
}

func (v *publishVisitor) VisitYouTube(r model.YouTubeRequest) error {
	return v.post("/api/youtube/upload", dto.YouTubeUploadRequest{
		Title:        model.FirstNonEmpty(r.Title, v.draft.Title),
		Description:  v.draft.Body,
		VideoURL:     model.FirstNonEmpty(r.VideoURL, v.draft.MediaURL),
		ThumbnailURL: model.FirstNonEmpty(r.ThumbnailURL, v.draft.SelectedThumbnailURL()),
		Privacy:      model.FirstNonEmpty(r.Privacy, "public"),
		Tags:         v.draft.Hashtags,
	})
}

func (v *publishVisitor) VisitYouTubeCommunity(r model.YouTubeCommunityRequest) error {
	return v.post("/api/youtube/community-post", dto.YouTubeCommunityPostRequest{
		Content:  v.draft.Body,
		ImageURL: model.FirstNonEmpty(r.ImageURL, v.draft.MediaURL),
	})
}

func (v *publishVisitor) VisitWhatsApp(r model.WhatsAppRequest) error {
	body := v.manual(model.PlatformWhatsApp)
	body.PhoneNumberID = r.PhoneNumberID
	return v.post("/api/post/manual", body)
}

func (v *publishVisitor) VisitReddit(r model.RedditRequest) error {
	body := v.manual(model.PlatformReddit)
	body.Subreddit = r.Subreddit
	body.Title = model.FirstNonEmpty(r.Title, v.draft.Title)
	return v.post("/api/post/manual", body)
}
