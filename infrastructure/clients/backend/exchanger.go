package backend

import (
	"context"

	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
)

// UpstreamExchanger hands authorization codes to the upstream API.
type UpstreamExchanger struct {
	backend     repository.IOAuthBackend
	redirectURI string
}

func NewUpstreamExchanger(backend repository.IOAuthBackend, redirectURI string) *UpstreamExchanger {
	return &UpstreamExchanger{backend: backend, redirectURI: redirectURI}
}

func (e *UpstreamExchanger) Exchange(ctx context.Context, session *model.Session, platform model.PlatformID, params model.CallbackParams) (*dto.ConnectionInfo, error) {
	return e.backend.ExchangeCode(ctx, session, platform, dto.OAuthCallbackRequest{
		Code:        params.Code,
		State:       params.State,
		RedirectURI: e.redirectURI,
	})
}
