package repository

import (
	"context"

	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
)

// IOAuthBackend is the upstream authorization surface.
type IOAuthBackend interface {
	AuthorizationURL(ctx context.Context, session *model.Session, platform model.PlatformID, callbackPath string) (string, error)
	ExchangeCode(ctx context.Context, session *model.Session, platform model.PlatformID, req dto.OAuthCallbackRequest) (*dto.ConnectionInfo, error)
}

// IStatusBackend reports the upstream view of a platform connection.
type IStatusBackend interface {
	ConnectionStatus(ctx context.Context, session *model.Session, platform model.PlatformID) (*dto.ConnectionInfo, error)
}

// IContentBackend generates, enriches and publishes content.
type IContentBackend interface {
	GenerateContent(ctx context.Context, session *model.Session, req dto.GenerateContentRequest) (*dto.GenerateContentResponse, error)
	GenerateImage(ctx context.Context, session *model.Session, req dto.GenerateImageRequest) (*dto.GenerateImageResponse, error)
	GenerateThumbnails(ctx context.Context, session *model.Session, req dto.GenerateThumbnailsRequest) (*dto.GenerateThumbnailsResponse, error)
	Publish(ctx context.Context, session *model.Session, req model.PlatformRequest, draft model.ContentDraft) (*model.PublishResult, error)
	SetupAutoPosting(ctx context.Context, session *model.Session, req dto.SetupAutoPostingRequest) (*dto.SetupAutoPostingResponse, error)
}

// IBackend is the whole upstream SaaS API.
type IBackend interface {
	IOAuthBackend
	IStatusBackend
	IContentBackend
}

// ICodeExchanger turns an authorization code into connection info.
type ICodeExchanger interface {
	Exchange(ctx context.Context, session *model.Session, platform model.PlatformID, params model.CallbackParams) (*dto.ConnectionInfo, error)
}
