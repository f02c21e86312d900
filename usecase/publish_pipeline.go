package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
	"autopost-dashboard/infrastructure/logger"
	"autopost-dashboard/infrastructure/utils"
)

const (
	thumbnailCount  = 3
	dailyCounterTTL = 48 * time.Hour
)

type IPublishPipeline interface {
	Operation(userID string, platform model.PlatformID) model.PublishOperation
	Generate(ctx context.Context, session *model.Session, platform model.PlatformID, profile model.BusinessProfile, topic string) (model.PublishOperation, error)
	Enrich(ctx context.Context, session *model.Session, platform model.PlatformID) (model.PublishOperation, error)
	SelectThumbnail(userID string, platform model.PlatformID, index int) (model.PublishOperation, error)
	UpdateDraft(userID string, platform model.PlatformID, req dto.UpdateDraftRequest) (model.PublishOperation, error)
	Publish(ctx context.Context, session *model.Session, req model.PlatformRequest, conn *model.PlatformConnection) (*model.PublishResult, error)
	StartAutomation(ctx context.Context, session *model.Session, platform model.PlatformID, profile *model.BusinessProfile, conn *model.PlatformConnection, req dto.AutomationRequest) (GateDecision, error)
	PostsToday(ctx context.Context, userID string, platform model.PlatformID) (int64, error)
}

// PublishPipeline owns one operation slot per (user, platform). The
// busy check and the status change happen under one lock and the upstream
// call happens outside it, so a second call sees the busy slot and fails
// with a conflict without reaching the network.
type PublishPipeline struct {
	backend  repository.IContentBackend
	kv       repository.IKeyValue
	notifier repository.INotifier
	now      func() time.Time

	mu    sync.Mutex
	slots map[string]*model.PublishOperation
}

func NewPublishPipeline(backend repository.IContentBackend, kv repository.IKeyValue, notifier repository.INotifier) *PublishPipeline {
	return &PublishPipeline{
		backend:  backend,
		kv:       kv,
		notifier: notifier,
		now:      time.Now,
		slots:    make(map[string]*model.PublishOperation),
	}
}

func (p *PublishPipeline) WithClock(now func() time.Time) *PublishPipeline {
	p.now = now
	return p
}

func dailyKey(userID string, platform model.PlatformID, day time.Time) string {
	return fmt.Sprintf("daily_posts:%s:%s:%s", userID, platform, utils.DayKey(day))
}

// slot returns the live slot, creating it. Caller holds mu.
func (p *PublishPipeline) slot(userID string, platform model.PlatformID) *model.PublishOperation {
	key := userID + ":" + string(platform)
	op, ok := p.slots[key]
	if !ok {
		op = &model.PublishOperation{UserID: userID, Platform: platform, Draft: model.NewDraft(), Status: model.StatusDraft, UpdatedAt: p.now()}
		p.slots[key] = op
	}
	return op
}

func (p *PublishPipeline) Operation(userID string, platform model.PlatformID) model.PublishOperation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return snapshot(p.slot(userID, platform))
}

func snapshot(op *model.PublishOperation) model.PublishOperation {
	out := *op
	out.Draft.Hashtags = append([]string(nil), op.Draft.Hashtags...)
	out.Draft.Thumbnails = append([]model.ThumbnailCandidate(nil), op.Draft.Thumbnails...)
	return out
}

// begin moves an idle slot to status after check accepts its draft.
func (p *PublishPipeline) begin(userID string, platform model.PlatformID, status model.PublishStatus, check func(model.ContentDraft) error) (model.PublishOperation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	op := p.slot(userID, platform)
	if op.Status.Busy() {
		return snapshot(op), apperror.Conflict(fmt.Sprintf("Another %s operation is still in progress", platform.DisplayName()))
	}
	if check != nil {
		if err := check(op.Draft); err != nil {
			return snapshot(op), err
		}
	}
	op.Status = status
	op.LastError = ""
	op.UpdatedAt = p.now()
	return snapshot(op), nil
}

// finish always leaves the slot in a terminal status.
func (p *PublishPipeline) finish(userID string, platform model.PlatformID, apply func(op *model.PublishOperation)) model.PublishOperation {
	p.mu.Lock()
	defer p.mu.Unlock()
	op := p.slot(userID, platform)
	apply(op)
	if op.Status.Busy() {
		op.Status = model.StatusDraft
	}
	op.UpdatedAt = p.now()
	return snapshot(op)
}

func (p *PublishPipeline) failWith(userID string, platform model.PlatformID, status model.PublishStatus, err error, fallback string) model.PublishOperation {
	msg := apperror.MessageOr(err, fallback)
	logger.GetLogger().WithField("error", err).WithField("platform", platform).Error(fallback)
	p.notifier.Push(userID, model.SeverityError, msg)
	return p.finish(userID, platform, func(op *model.PublishOperation) {
		op.Status = status
		op.LastError = msg
	})
}

func (p *PublishPipeline) Generate(ctx context.Context, session *model.Session, platform model.PlatformID, profile model.BusinessProfile, topic string) (model.PublishOperation, error) {
	if !session.Valid() {
		return model.PublishOperation{}, apperror.NotAuthenticated("Please log in")
	}
	if !profile.IsConfigured {
		p.notifier.Push(session.UserID, model.SeverityError, msgConfigureProfile)
		return p.Operation(session.UserID, platform), apperror.Validation(msgConfigureProfile)
	}
	if _, err := p.begin(session.UserID, platform, model.StatusGenerating, nil); err != nil {
		return p.Operation(session.UserID, platform), err
	}

	// the result is delivered even if the caller goes away
	res, err := p.backend.GenerateContent(context.WithoutCancel(ctx), session, dto.GenerateContentRequest{
		Platform:            string(platform),
		Domain:              profile.Domain,
		BusinessType:        profile.BusinessType,
		BusinessDescription: profile.BusinessDescription,
		TargetAudience:      profile.TargetAudience,
		ContentStyle:        profile.ContentStyle,
		Topic:               strings.TrimSpace(topic),
	})
	if err != nil {
		return p.failWith(session.UserID, platform, model.StatusDraft, err, fmt.Sprintf("Failed to generate %s content", platform.DisplayName())), err
	}

	op := p.finish(session.UserID, platform, func(op *model.PublishOperation) {
		if res.Title != "" {
			op.Draft.Title = res.Title
		}
		op.Draft.Body = res.Content
		op.Draft.Hashtags = res.Hashtags
		op.Status = model.StatusDraft
	})
	p.notifier.Push(session.UserID, model.SeveritySuccess, "Content generated successfully")
	return op, nil
}

func (p *PublishPipeline) Enrich(ctx context.Context, session *model.Session, platform model.PlatformID) (model.PublishOperation, error) {
	if !session.Valid() {
		return model.PublishOperation{}, apperror.NotAuthenticated("Please log in")
	}
	op, err := p.begin(session.UserID, platform, model.StatusEnriching, func(d model.ContentDraft) error {
		if strings.TrimSpace(model.FirstNonEmpty(d.Title, d.Body)) == "" {
			return apperror.Validation("Add a title or some content first")
		}
		return nil
	})
	if err != nil {
		return op, err
	}

	ctx = context.WithoutCancel(ctx)
	draft := op.Draft
	if platform == model.PlatformYouTube {
		res, err := p.backend.GenerateThumbnails(ctx, session, dto.GenerateThumbnailsRequest{
			Title:       model.FirstNonEmpty(draft.Title, draft.Body),
			Description: draft.Body,
			Count:       thumbnailCount,
		})
		if err != nil {
			return p.failWith(session.UserID, platform, model.StatusDraft, err, "Failed to generate thumbnails"), err
		}
		candidates := make([]model.ThumbnailCandidate, 0, len(res.Thumbnails))
		for _, t := range res.Thumbnails {
			candidates = append(candidates, model.ThumbnailCandidate{URL: t.URL, CTRScore: t.CTRScore, Style: t.Style})
		}
		op = p.finish(session.UserID, platform, func(op *model.PublishOperation) {
			op.Draft.Thumbnails = candidates
			op.Draft.SelectedThumbnail = -1
			op.Status = model.StatusDraft
		})
		p.notifier.Push(session.UserID, model.SeveritySuccess, fmt.Sprintf("Generated %d thumbnails. Pick one before publishing", len(candidates)))
		return op, nil
	}

	res, err := p.backend.GenerateImage(ctx, session, dto.GenerateImageRequest{
		Prompt:   model.FirstNonEmpty(draft.Title, draft.Body),
		Platform: string(platform),
	})
	if err != nil {
		return p.failWith(session.UserID, platform, model.StatusDraft, err, "Failed to generate image"), err
	}
	op = p.finish(session.UserID, platform, func(op *model.PublishOperation) {
		op.Draft.MediaURL = res.ImageURL
		op.Status = model.StatusDraft
	})
	p.notifier.Push(session.UserID, model.SeveritySuccess, "Image generated successfully")
	return op, nil
}

func (p *PublishPipeline) SelectThumbnail(userID string, platform model.PlatformID, index int) (model.PublishOperation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	op := p.slot(userID, platform)
	if op.Status.Busy() {
		return snapshot(op), apperror.Conflict(fmt.Sprintf("Another %s operation is still in progress", platform.DisplayName()))
	}
	if index < 0 || index >= len(op.Draft.Thumbnails) {
		return snapshot(op), apperror.Validation("Invalid thumbnail selection")
	}
	op.Draft.SelectedThumbnail = index
	op.UpdatedAt = p.now()
	return snapshot(op), nil
}

func (p *PublishPipeline) UpdateDraft(userID string, platform model.PlatformID, req dto.UpdateDraftRequest) (model.PublishOperation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	op := p.slot(userID, platform)
	if op.Status.Busy() {
		return snapshot(op), apperror.Conflict(fmt.Sprintf("Another %s operation is still in progress", platform.DisplayName()))
	}
	op.Draft.Title = req.Title
	op.Draft.Body = req.Body
	op.Draft.MediaURL = req.MediaURL
	op.Draft.Hashtags = req.Hashtags
	op.Status = model.StatusDraft
	op.LastError = ""
	op.UpdatedAt = p.now()
	return snapshot(op), nil
}

func (p *PublishPipeline) Publish(ctx context.Context, session *model.Session, req model.PlatformRequest, conn *model.PlatformConnection) (*model.PublishResult, error) {
	if !session.Valid() {
		return nil, apperror.NotAuthenticated("Please log in")
	}
	platform := req.Platform()
	if !conn.IsConnected() {
		p.notifier.Push(session.UserID, model.SeverityError, connectMessage(platform))
		return nil, apperror.Validation(connectMessage(platform))
	}

	op, err := p.begin(session.UserID, platform, model.StatusPublishing, req.Validate)
	if err != nil {
		return nil, err
	}

	res, err := p.backend.Publish(context.WithoutCancel(ctx), session, req, op.Draft)
	if err != nil {
		p.failWith(session.UserID, platform, model.StatusFailed, err, fmt.Sprintf("Failed to publish to %s", platform.DisplayName()))
		return nil, err
	}

	p.finish(session.UserID, platform, func(op *model.PublishOperation) {
		op.Draft = model.NewDraft()
		op.Status = model.StatusSucceeded
	})
	if _, err := p.kv.Incr(ctx, dailyKey(session.UserID, platform, p.now()), dailyCounterTTL); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Error incrementing daily post counter")
	}
	p.notifier.Push(session.UserID, model.SeveritySuccess, fmt.Sprintf("Published to %s successfully!", platform.DisplayName()))
	return res, nil
}

func (p *PublishPipeline) StartAutomation(ctx context.Context, session *model.Session, platform model.PlatformID, profile *model.BusinessProfile, conn *model.PlatformConnection, req dto.AutomationRequest) (GateDecision, error) {
	if !session.Valid() {
		return GateDecision{}, apperror.NotAuthenticated("Please log in")
	}
	decision := Guard(platform, TabAutomation, profile, conn)
	if !decision.Allowed {
		p.notifier.Push(session.UserID, model.SeverityError, decision.Message)
		return decision, decision.Err()
	}
	if req.PostsPerDay <= 0 {
		return decision, apperror.Validation("Posts per day must be at least 1")
	}

	_, err := p.backend.SetupAutoPosting(context.WithoutCancel(ctx), session, dto.SetupAutoPostingRequest{
		Platform:       string(platform),
		PostsPerDay:    req.PostsPerDay,
		Timezone:       req.Timezone,
		Domain:         profile.Domain,
		BusinessType:   profile.BusinessType,
		TargetAudience: profile.TargetAudience,
		ContentStyle:   profile.ContentStyle,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("platform", platform).Error("Error setting up auto posting")
		p.notifier.Push(session.UserID, model.SeverityError,
			apperror.MessageOr(err, fmt.Sprintf("Failed to start %s automation", platform.DisplayName())))
		return decision, err
	}
	p.notifier.Push(session.UserID, model.SeveritySuccess, fmt.Sprintf("%s automation started", platform.DisplayName()))
	return decision, nil
}

func (p *PublishPipeline) PostsToday(ctx context.Context, userID string, platform model.PlatformID) (int64, error) {
	raw, ok, err := p.kv.Get(ctx, dailyKey(userID, platform, p.now()))
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse daily counter: %w", err)
	}
	return n, nil
}
