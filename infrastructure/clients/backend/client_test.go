package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSession = &model.Session{UserID: "u-1", Email: "a@b.c", BearerToken: "tok"}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second).(*Client)
}

func TestAuthorizationURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/oauth/facebook/authorize", r.URL.Path)
		assert.Equal(t, "/dashboard/callback", r.URL.Query().Get("callback"))
		assert.Equal(t, "u-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(dto.AuthorizeResponse{Success: true, RedirectURL: "https://provider/auth"})
	})

	url, err := c.AuthorizationURL(context.Background(), testSession, model.PlatformFacebook, "/dashboard/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://provider/auth", url)
}

func TestAuthorizationURL_FallsBackToAuthURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dto.AuthorizeResponse{Success: true, AuthURL: "https://accounts.google.com/o"})
	})

	url, err := c.AuthorizationURL(context.Background(), testSession, model.PlatformYouTube, "/cb")
	require.NoError(t, err)
	assert.Equal(t, "https://accounts.google.com/o", url)
}

func TestAuthorizationURL_SuccessFalse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dto.AuthorizeResponse{Success: false, Error: "App not configured"})
	})

	_, err := c.AuthorizationURL(context.Background(), testSession, model.PlatformReddit, "/cb")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUpstream, apperror.KindOf(err))
	assert.Equal(t, "App not configured", apperror.MessageOr(err, ""))
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   apperror.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, apperror.KindNotAuthenticated},
		{"forbidden", http.StatusForbidden, `{}`, apperror.KindNotAuthenticated},
		{"not found", http.StatusNotFound, `{"message":"no connection"}`, apperror.KindNotFound},
		{"conflict", http.StatusConflict, `{}`, apperror.KindConflict},
		{"service unavailable", http.StatusServiceUnavailable, `{}`, apperror.KindBackendUnavailable},
		{"bad gateway", http.StatusBadGateway, `not json`, apperror.KindBackendUnavailable},
		{"bad request", http.StatusBadRequest, `{"error":"bad"}`, apperror.KindUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.ConnectionStatus(context.Background(), testSession, model.PlatformInstagram)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestNetworkFailureIsBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(base, time.Second)
	_, err := c.ConnectionStatus(context.Background(), testSession, model.PlatformYouTube)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindBackendUnavailable))
}

func TestExchangeCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/youtube/oauth-callback", r.URL.Path)
		var body dto.OAuthCallbackRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "abc123", body.Code)
		assert.Equal(t, "youtube_oauth", body.State)
		_ = json.NewEncoder(w).Encode(dto.ConnectionInfo{Success: true, Connected: true, ChannelTitle: "My Channel"})
	})

	info, err := c.ExchangeCode(context.Background(), testSession, model.PlatformYouTube, dto.OAuthCallbackRequest{Code: "abc123", State: "youtube_oauth"})
	require.NoError(t, err)
	assert.Equal(t, "My Channel", info.ChannelTitle)
}

func TestPublishRoutesByVariant(t *testing.T) {
	var hits atomic.Int32
	var lastPath atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lastPath.Store(r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.PublishResponse{Success: true, PostID: "p1", PostURL: "https://x/p1"})
	})
	draft := model.ContentDraft{Title: "T", Body: "B", MediaURL: "https://img", SelectedThumbnail: -1}

	cases := []struct {
		req  model.PlatformRequest
		path string
	}{
		{model.FacebookRequest{PageID: "pg"}, "/api/post/manual"},
		{model.InstagramRequest{ImageURL: "https://img"}, "/api/post/manual"},
		{model.YouTubeRequest{Title: "T", VideoURL: "https://v"}, "/api/youtube/upload"},
		{model.YouTubeCommunityRequest{}, "/api/youtube/community-post"},
		{model.WhatsAppRequest{PhoneNumberID: "1"}, "/api/post/manual"},
		{model.RedditRequest{Subreddit: "golang", Title: "T"}, "/api/post/manual"},
	}
	for _, tc := range cases {
		res, err := c.Publish(context.Background(), testSession, tc.req, draft)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "p1", res.PostID)
		assert.Equal(t, tc.path, lastPath.Load())
	}
	assert.Equal(t, int32(len(cases)), hits.Load())
}

func TestPublishSuccessFalse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dto.PublishResponse{Success: false, Message: "Page token expired"})
	})

	_, err := c.Publish(context.Background(), testSession, model.FacebookRequest{}, model.ContentDraft{Body: "hi"})
	require.Error(t, err)
	assert.Equal(t, "Page token expired", apperror.MessageOr(err, ""))
}

func TestGenerateThumbnails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate-thumbnails", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.GenerateThumbnailsResponse{
			Success:    true,
			Thumbnails: []dto.Thumbnail{{URL: "https://t/1", CTRScore: 0.8}},
		})
	})

	res, err := c.GenerateThumbnails(context.Background(), testSession, dto.GenerateThumbnailsRequest{Title: "T", Count: 3})
	require.NoError(t, err)
	require.Len(t, res.Thumbnails, 1)
	assert.Equal(t, 0.8, res.Thumbnails[0].CTRScore)
}
