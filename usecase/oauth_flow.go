package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
	"autopost-dashboard/infrastructure/logger"
)

const callbackMarkerTTL = 24 * time.Hour

type IOAuthFlow interface {
	// BeginAuthorization returns the provider URL the browser must navigate to.
	// After it returns the flow waits for a callback that may never come.
	BeginAuthorization(ctx context.Context, platform model.PlatformID, session *model.Session) (string, error)
	HandleCallback(ctx context.Context, params model.CallbackParams, session *model.Session) CallbackOutcome
	FlowState(userID string, platform model.PlatformID) model.OAuthFlow
}

// CallbackOutcome is the result of one callback page load. CleanURL is
// always set so the caller can drop the one-shot query string.
type CallbackOutcome struct {
	Platform   model.PlatformID          `json:"platform"`
	Connection *model.PlatformConnection `json:"connection,omitempty"`
	// Duplicate is set when the callback was already applied.
	Duplicate bool   `json:"duplicate"`
	CleanURL  string `json:"clean_url"`
	Err       error  `json:"-"`
}

type OAuthFlowController struct {
	backend       repository.IOAuthBackend
	exchanger     repository.ICodeExchanger
	connections   repository.IConnection
	kv            repository.IKeyValue
	notifier      repository.INotifier
	callbackPath  string
	dashboardPath string
	now           func() time.Time

	mu    sync.Mutex
	flows map[string]model.OAuthFlow
}

func NewOAuthFlowController(
	backend repository.IOAuthBackend,
	exchanger repository.ICodeExchanger,
	connections repository.IConnection,
	kv repository.IKeyValue,
	notifier repository.INotifier,
	callbackPath, dashboardPath string,
) *OAuthFlowController {
	return &OAuthFlowController{
		backend:       backend,
		exchanger:     exchanger,
		connections:   connections,
		kv:            kv,
		notifier:      notifier,
		callbackPath:  callbackPath,
		dashboardPath: dashboardPath,
		now:           time.Now,
		flows:         make(map[string]model.OAuthFlow),
	}
}

func (c *OAuthFlowController) WithClock(now func() time.Time) *OAuthFlowController {
	c.now = now
	return c
}

func flowKey(userID string, platform model.PlatformID) string {
	return userID + ":" + string(platform)
}

func (c *OAuthFlowController) FlowState(userID string, platform model.PlatformID) model.OAuthFlow {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.flows[flowKey(userID, platform)]; ok {
		return f
	}
	return model.OAuthFlow{Platform: platform, State: model.OAuthIdle}
}

func (c *OAuthFlowController) setState(userID string, platform model.PlatformID, state model.OAuthFlowState) {
	c.mu.Lock()
	c.flows[flowKey(userID, platform)] = model.OAuthFlow{Platform: platform, State: state, UpdatedAt: c.now()}
	c.mu.Unlock()
}

func (c *OAuthFlowController) BeginAuthorization(ctx context.Context, platform model.PlatformID, session *model.Session) (string, error) {
	if !session.Valid() {
		return "", apperror.NotAuthenticated("Please log in to connect " + platform.DisplayName())
	}

	c.mu.Lock()
	if c.flows[flowKey(session.UserID, platform)].State == model.OAuthExchangingCode {
		c.mu.Unlock()
		return "", apperror.Conflict(fmt.Sprintf("%s authorization is already being completed", platform.DisplayName()))
	}
	c.mu.Unlock()

	url, err := c.backend.AuthorizationURL(ctx, session, platform, c.callbackPath)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("platform", platform).Error("Error requesting authorization URL")
		c.setState(session.UserID, platform, model.OAuthFailed)
		if !apperror.Is(err, apperror.KindNotAuthenticated) {
			c.notifier.Push(session.UserID, model.SeverityError,
				apperror.MessageOr(err, fmt.Sprintf("Failed to start %s authorization", platform.DisplayName())))
		}
		return "", err
	}

	if _, err := c.kv.Incr(ctx, attemptKey(session.UserID, platform), 0); err != nil {
		logger.GetLogger().WithField("error", err).WithField("platform", platform).Warn("Error starting authorization attempt")
	}
	c.setState(session.UserID, platform, model.OAuthAwaitingRedirect)
	c.notifier.Push(session.UserID, model.SeverityInfo, fmt.Sprintf("Redirecting to %s...", platform.DisplayName()))
	return url, nil
}

// attemptKey counts BeginAuthorization calls so a callback is only a replay
// within the attempt it answers. The counter never expires, so it cannot
// restart while a marker from an earlier attempt is still live.
func attemptKey(userID string, platform model.PlatformID) string {
	return fmt.Sprintf("oauth_attempt:%s:%s", userID, platform)
}

// markerKey identifies one callback; the raw code never reaches storage.
func markerKey(userID string, platform model.PlatformID, attempt, marker string) string {
	sum := sha256.Sum256([]byte(attempt + "|" + marker))
	return fmt.Sprintf("oauth_callback:%s:%s:%s", userID, platform, hex.EncodeToString(sum[:]))
}

func (c *OAuthFlowController) HandleCallback(ctx context.Context, params model.CallbackParams, session *model.Session) CallbackOutcome {
	platform := params.Platform
	out := CallbackOutcome{Platform: platform, CleanURL: c.dashboardPath}
	if !params.HasCallback() {
		return out
	}

	fail := func(err error, fallback string) CallbackOutcome {
		out.Err = err
		if session != nil && session.UserID != "" {
			c.setState(session.UserID, platform, model.OAuthFailed)
			c.notifier.Push(session.UserID, model.SeverityError, apperror.MessageOr(err, fallback))
		}
		return out
	}

	if !session.Valid() {
		return fail(apperror.NotAuthenticated("Please log in to finish connecting "+platform.DisplayName()), "")
	}
	if params.Error != "" {
		msg := fmt.Sprintf("%s authorization failed: %s", platform.DisplayName(), model.FirstNonEmpty(params.ErrorDesc, params.Error))
		return fail(apperror.OAuth(msg), msg)
	}

	fallback := fmt.Sprintf("Failed to connect %s", platform.DisplayName())
	attempt, _, err := c.kv.Get(ctx, attemptKey(session.UserID, platform))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error reading authorization attempt")
		return fail(apperror.BackendUnavailable("Service temporarily unavailable", err), fallback)
	}
	claimed, err := c.kv.SetIfAbsent(ctx, markerKey(session.UserID, platform, attempt, params.Marker()), c.now().UTC().Format(time.RFC3339), callbackMarkerTTL)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error claiming callback marker")
		return fail(apperror.BackendUnavailable("Service temporarily unavailable", err), fallback)
	}
	if !claimed {
		out.Duplicate = true
		return out
	}

	var conn model.PlatformConnection
	if params.Code != "" {
		c.setState(session.UserID, platform, model.OAuthExchangingCode)
		info, err := c.exchanger.Exchange(ctx, session, platform, params)
		if err != nil {
			logger.GetLogger().WithField("error", err).WithField("platform", platform).Error("Error exchanging authorization code")
			return fail(err, fallback)
		}
		conn = connectionFromInfo(session.UserID, platform, info, c.now())
		if !conn.Connected {
			return fail(apperror.OAuth(model.FirstNonEmpty(info.Message, info.Error, fallback)), fallback)
		}
	} else {
		meta := map[string]interface{}{}
		for k, v := range params.Extra {
			meta[k] = v
		}
		conn = model.Connected(session.UserID, platform, model.FirstNonEmpty(params.Username, platform.DisplayName()), meta, c.now())
	}

	if err := c.connections.Upsert(ctx, &conn); err != nil {
		logger.GetLogger().WithField("error", err).WithField("platform", platform).Error("Error saving connection")
		return fail(fmt.Errorf("save connection: %w", err), fallback)
	}

	c.setState(session.UserID, platform, model.OAuthConnected)
	c.notifier.Push(session.UserID, model.SeveritySuccess,
		fmt.Sprintf("%s connected successfully as %s", platform.DisplayName(), conn.Handle()))
	out.Connection = &conn
	return out
}
