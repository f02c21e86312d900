package http

import (
	"context"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/usecase"
)

// workflowState loads what the gate needs for one platform. A connection
// never checked before is fetched from upstream once; an upstream that no
// longer accepts the session is reported so the caller can send it to login.
type workflowState struct {
	profiles usecase.IProfileUsecase
	poller   usecase.IConnectionPoller
}

func (w workflowState) load(ctx context.Context, session *model.Session, platform model.PlatformID) (model.BusinessProfile, *model.PlatformConnection, error) {
	profile, err := w.profiles.Load(ctx, session, platform)
	if err != nil {
		return profile, nil, err
	}
	conn, err := w.poller.Cached(ctx, session.UserID, platform)
	if err != nil || conn == nil {
		fresh, err := w.poller.Check(ctx, platform, session)
		if apperror.Is(err, apperror.KindNotAuthenticated) {
			return profile, nil, err
		}
		conn = &fresh
	}
	return profile, conn, nil
}
