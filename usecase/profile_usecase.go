package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
	"autopost-dashboard/infrastructure/logger"
)

type IProfileUsecase interface {
	// Load returns defaults until the profile is saved once.
	Load(ctx context.Context, session *model.Session, platform model.PlatformID) (model.BusinessProfile, error)
	Save(ctx context.Context, session *model.Session, platform model.PlatformID, req dto.SaveProfileRequest) (model.BusinessProfile, error)
}

type profileUsecase struct {
	repo     repository.IProfile
	notifier repository.INotifier
	now      func() time.Time
}

func NewProfileUsecase(repo repository.IProfile, notifier repository.INotifier) IProfileUsecase {
	return &profileUsecase{repo: repo, notifier: notifier, now: time.Now}
}

func (u *profileUsecase) Load(ctx context.Context, session *model.Session, platform model.PlatformID) (model.BusinessProfile, error) {
	if session == nil || session.UserID == "" {
		return model.DefaultProfile(), apperror.NotAuthenticated("Please log in")
	}
	p, err := u.repo.Get(ctx, session.StorageKey(), platform.ProfileScope())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error loading business profile")
		return model.DefaultProfile(), fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		return model.DefaultProfile(), nil
	}
	return *p, nil
}

func (u *profileUsecase) Save(ctx context.Context, session *model.Session, platform model.PlatformID, req dto.SaveProfileRequest) (model.BusinessProfile, error) {
	if session == nil || session.UserID == "" {
		return model.BusinessProfile{}, apperror.NotAuthenticated("Please log in")
	}
	if strings.TrimSpace(req.Domain) == "" || strings.TrimSpace(req.BusinessType) == "" {
		return model.BusinessProfile{}, apperror.Validation("Business domain and type are required")
	}

	defaults := model.DefaultProfile()
	saved := u.now().UTC()
	p := model.BusinessProfile{
		Domain:              strings.TrimSpace(req.Domain),
		BusinessType:        strings.TrimSpace(req.BusinessType),
		BusinessDescription: strings.TrimSpace(req.BusinessDescription),
		TargetAudience:      model.FirstNonEmpty(req.TargetAudience, defaults.TargetAudience),
		ContentStyle:        model.FirstNonEmpty(req.ContentStyle, defaults.ContentStyle),
		IsConfigured:        true,
		SavedAt:             &saved,
	}
	if err := u.repo.Save(ctx, session.StorageKey(), platform.ProfileScope(), p); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error saving business profile")
		u.notifier.Push(session.UserID, model.SeverityError, "Failed to save profile")
		return model.BusinessProfile{}, fmt.Errorf("save profile: %w", err)
	}
	u.notifier.Push(session.UserID, model.SeveritySuccess, fmt.Sprintf("%s profile saved", platform.DisplayName()))
	return p, nil
}
