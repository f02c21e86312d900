package usecase

import (
	"context"
	"fmt"
	"time"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
	"autopost-dashboard/infrastructure/logger"

	"golang.org/x/sync/singleflight"
)

// pollTimeout bounds one shared status check including its retries.
const pollTimeout = 30 * time.Second

type IConnectionPoller interface {
	// Refresh always resolves; upstream failures yield a disconnected result.
	Refresh(ctx context.Context, platform model.PlatformID, session *model.Session) model.PlatformConnection
	// Check returns the same connection as Refresh plus the failure, if any.
	Check(ctx context.Context, platform model.PlatformID, session *model.Session) (model.PlatformConnection, error)
	// Cached returns the last persisted connection, or nil.
	Cached(ctx context.Context, userID string, platform model.PlatformID) (*model.PlatformConnection, error)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type ConnectionPoller struct {
	backend     repository.IStatusBackend
	repo        repository.IConnection
	notifier    repository.INotifier
	maxAttempts int
	delays      []time.Duration
	sleep       Sleeper
	now         func() time.Time
	inflight    singleflight.Group
}

func NewConnectionPoller(backend repository.IStatusBackend, repo repository.IConnection, notifier repository.INotifier, maxAttempts int, delays []time.Duration) *ConnectionPoller {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &ConnectionPoller{
		backend:     backend,
		repo:        repo,
		notifier:    notifier,
		maxAttempts: maxAttempts,
		delays:      delays,
		sleep:       contextSleep,
		now:         time.Now,
	}
}

func (p *ConnectionPoller) WithSleeper(s Sleeper) *ConnectionPoller {
	p.sleep = s
	return p
}

func (p *ConnectionPoller) WithClock(now func() time.Time) *ConnectionPoller {
	p.now = now
	return p
}

func (p *ConnectionPoller) Cached(ctx context.Context, userID string, platform model.PlatformID) (*model.PlatformConnection, error) {
	return p.repo.Get(ctx, userID, platform)
}

func (p *ConnectionPoller) Refresh(ctx context.Context, platform model.PlatformID, session *model.Session) model.PlatformConnection {
	conn, _ := p.Check(ctx, platform, session)
	return conn
}

type pollResult struct {
	conn model.PlatformConnection
	err  error
}

// Check is Refresh that also reports why a check failed. The shared poll
// outlives the caller that started it, so a cancelled request does not fail
// the callers waiting on the same (user, platform).
func (p *ConnectionPoller) Check(ctx context.Context, platform model.PlatformID, session *model.Session) (model.PlatformConnection, error) {
	if !session.Valid() {
		userID := ""
		if session != nil {
			userID = session.UserID
		}
		return model.Disconnected(userID, platform, p.now()), apperror.NotAuthenticated("Please log in")
	}

	key := session.UserID + ":" + string(platform)
	ch := p.inflight.DoChan(key, func() (interface{}, error) {
		pollCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pollTimeout)
		defer cancel()
		conn, err := p.poll(pollCtx, platform, session)
		return pollResult{conn: conn, err: err}, nil
	})

	select {
	case res := <-ch:
		r := res.Val.(pollResult)
		return r.conn, r.err
	case <-ctx.Done():
		return model.Disconnected(session.UserID, platform, p.now()), ctx.Err()
	}
}

// delay returns the wait before attempt n+1; the last entry repeats.
func (p *ConnectionPoller) delay(n int) time.Duration {
	if len(p.delays) == 0 {
		return 0
	}
	if n >= len(p.delays) {
		n = len(p.delays) - 1
	}
	return p.delays[n]
}

func (p *ConnectionPoller) poll(ctx context.Context, platform model.PlatformID, session *model.Session) (model.PlatformConnection, error) {
	log := logger.GetLogger().WithField("platform", platform).WithField("user_id", session.UserID)

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		info, err := p.backend.ConnectionStatus(ctx, session, platform)
		if err == nil {
			conn := connectionFromInfo(session.UserID, platform, info, p.now())
			p.persist(ctx, &conn)
			return conn, nil
		}
		lastErr = err

		kind := apperror.KindOf(err)
		if kind == apperror.KindNotFound {
			conn := model.Disconnected(session.UserID, platform, p.now())
			p.persist(ctx, &conn)
			return conn, nil
		}
		if kind != apperror.KindBackendUnavailable {
			break
		}
		log.WithField("attempt", attempt).WithField("error", err).Warn("Connection status unavailable")
		if attempt == p.maxAttempts {
			break
		}
		if err := p.sleep(ctx, p.delay(attempt-1)); err != nil {
			lastErr = err
			break
		}
	}

	log.WithField("error", lastErr).Error("Connection status check failed")
	// An expired session is answered with a login redirect, not a notification.
	if !apperror.Is(lastErr, apperror.KindNotAuthenticated) {
		p.notifier.Push(session.UserID, model.SeverityError,
			apperror.MessageOr(lastErr, fmt.Sprintf("Unable to check %s connection status", platform.DisplayName())))
	}
	return model.Disconnected(session.UserID, platform, p.now()), lastErr
}

func (p *ConnectionPoller) persist(ctx context.Context, conn *model.PlatformConnection) {
	if err := p.repo.Upsert(ctx, conn); err != nil {
		logger.GetLogger().WithField("error", err).WithField("platform", conn.Platform).Error("Error saving connection")
	}
}

// connectionFromInfo maps an upstream payload onto a connection record.
// A connected account without any name falls back to the channel id or
// the platform name so the record stays valid.
func connectionFromInfo(userID string, platform model.PlatformID, info *dto.ConnectionInfo, at time.Time) model.PlatformConnection {
	if info == nil || !info.Connected {
		return model.Disconnected(userID, platform, at)
	}
	meta := map[string]interface{}{}
	for k, v := range info.Meta {
		meta[k] = v
	}
	if info.ChannelID != "" {
		meta["channel_id"] = info.ChannelID
	}
	if info.ChannelTitle != "" {
		meta["channel_title"] = info.ChannelTitle
	}
	if info.AccountType != "" {
		meta["account_type"] = info.AccountType
	}
	if len(info.Pages) > 0 {
		pages := make([]map[string]interface{}, 0, len(info.Pages))
		for _, pg := range info.Pages {
			pages = append(pages, map[string]interface{}{"id": pg.ID, "name": pg.Name})
		}
		meta["pages"] = pages
	}
	handle := model.FirstNonEmpty(info.Username, info.AccountName, info.ChannelTitle, info.PageName, info.ChannelID, platform.DisplayName())
	return model.Connected(userID, platform, handle, meta, at)
}
