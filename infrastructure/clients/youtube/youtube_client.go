package youtube

import (
	"context"
	"fmt"
	"strings"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
	"autopost-dashboard/infrastructure/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Config represents the YouTube OAuth client
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// APIEndpoint overrides the YouTube Data API base URL (tests).
	APIEndpoint string
	// TokenURL overrides the Google token endpoint (tests).
	TokenURL string
}

// DirectExchanger trades YouTube authorization codes with Google itself and
// reads the channel handle with the Data API. Other platforms go to fallback.
type DirectExchanger struct {
	oauthConfig *oauth2.Config
	apiEndpoint string
	tokens      repository.IOAuthToken
	fallback    repository.ICodeExchanger
}

func NewDirectExchanger(cfg Config, tokens repository.IOAuthToken, fallback repository.ICodeExchanger) *DirectExchanger {
	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	return &DirectExchanger{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				youtube.YoutubeScope,
				youtube.YoutubeUploadScope,
				youtube.YoutubeForceSslScope,
			},
			Endpoint: endpoint,
		},
		apiEndpoint: cfg.APIEndpoint,
		tokens:      tokens,
		fallback:    fallback,
	}
}

func (e *DirectExchanger) Exchange(ctx context.Context, session *model.Session, platform model.PlatformID, params model.CallbackParams) (*dto.ConnectionInfo, error) {
	if platform != model.PlatformYouTube {
		return e.fallback.Exchange(ctx, session, platform, params)
	}

	token, err := e.oauthConfig.Exchange(ctx, params.Code)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error exchanging YouTube authorization code")
		return nil, apperror.Wrap(apperror.KindOAuth, "YouTube authorization failed", err)
	}

	opts := []option.ClientOption{option.WithHTTPClient(e.oauthConfig.Client(ctx, token))}
	if e.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(e.apiEndpoint))
	}
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	resp, err := service.Channels.List([]string{"snippet"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUpstream, "Failed to read YouTube channel", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, apperror.OAuth("No YouTube channel found for this account")
	}
	channel := resp.Items[0]

	stored := &model.OAuthToken{
		UserID:       session.UserID,
		Platform:     model.PlatformYouTube,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scopes:       strings.Join(e.oauthConfig.Scopes, " "),
	}
	if !token.Expiry.IsZero() {
		exp := token.Expiry.UTC()
		stored.ExpiresAt = &exp
	}
	if err := e.tokens.UpsertToken(ctx, stored); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error storing YouTube token")
		return nil, fmt.Errorf("store youtube token: %w", err)
	}

	handle := channel.Snippet.CustomUrl
	if handle == "" {
		handle = channel.Snippet.Title
	}
	return &dto.ConnectionInfo{
		Success:      true,
		Connected:    true,
		Username:     handle,
		ChannelTitle: channel.Snippet.Title,
		ChannelID:    channel.Id,
	}, nil
}
