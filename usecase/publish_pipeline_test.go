package usecase_test

import (
	"context"
	"testing"
	"time"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/infrastructure/cache"
	"autopost-dashboard/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	configuredProfile = model.BusinessProfile{Domain: "bakery", BusinessType: "retail", IsConfigured: true}
	publishDay        = time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
)

func connectedTo(platform model.PlatformID) *model.PlatformConnection {
	c := model.Connected(validSession.UserID, platform, "handle", nil, publishDay)
	return &c
}

func newPipeline(backend *MockBackend) (*usecase.PublishPipeline, *recordingNotifier) {
	notifier := &recordingNotifier{}
	p := usecase.NewPublishPipeline(backend, cache.NewMemoryKeyValue(), notifier).WithClock(func() time.Time { return publishDay })
	return p, notifier
}

func TestGenerate_FillsDraft(t *testing.T) {
	backend := &MockBackend{}
	backend.On("GenerateContent", mock.MatchedBy(func(r dto.GenerateContentRequest) bool {
		return r.Platform == "facebook" && r.Domain == "bakery" && r.Topic == "croissants"
	})).Return(&dto.GenerateContentResponse{Success: true, Title: "Fresh", Content: "Warm croissants", Hashtags: []string{"#bread"}}, nil)
	p, _ := newPipeline(backend)

	op, err := p.Generate(context.Background(), validSession, model.PlatformFacebook, configuredProfile, " croissants ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, op.Status)
	assert.Equal(t, "Warm croissants", op.Draft.Body)
	assert.Equal(t, []string{"#bread"}, op.Draft.Hashtags)
}

func TestGenerate_RequiresConfiguredProfile(t *testing.T) {
	backend := &MockBackend{}
	p, notifier := newPipeline(backend)

	_, err := p.Generate(context.Background(), validSession, model.PlatformFacebook, model.DefaultProfile(), "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, []string{"Please configure your profile first"}, notifier.bySeverity(model.SeverityError))
	backend.AssertNotCalled(t, "GenerateContent", mock.Anything)
}

func TestGenerate_FailureKeepsPriorDraft(t *testing.T) {
	backend := &MockBackend{}
	backend.On("GenerateContent", mock.Anything).Return(nil, apperror.BackendUnavailable("Service temporarily unavailable", nil))
	p, notifier := newPipeline(backend)
	_, err := p.UpdateDraft(validSession.UserID, model.PlatformReddit, dto.UpdateDraftRequest{Title: "Mine", Body: "typed by hand"})
	require.NoError(t, err)

	op, err := p.Generate(context.Background(), validSession, model.PlatformReddit, configuredProfile, "")
	require.Error(t, err)
	assert.Equal(t, model.StatusDraft, op.Status)
	assert.Equal(t, "typed by hand", op.Draft.Body)
	assert.Equal(t, "Service temporarily unavailable", op.LastError)
	assert.Len(t, notifier.bySeverity(model.SeverityError), 1)
}

func TestPublish_InstagramWithoutImageNeverCallsNetwork(t *testing.T) {
	backend := &MockBackend{}
	p, _ := newPipeline(backend)
	_, err := p.UpdateDraft(validSession.UserID, model.PlatformInstagram, dto.UpdateDraftRequest{Body: "caption"})
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), validSession, model.InstagramRequest{}, connectedTo(model.PlatformInstagram))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	backend.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	assert.Equal(t, model.StatusDraft, p.Operation(validSession.UserID, model.PlatformInstagram).Status)
}

func TestPublish_RequiresConnection(t *testing.T) {
	backend := &MockBackend{}
	p, notifier := newPipeline(backend)

	_, err := p.Publish(context.Background(), validSession, model.FacebookRequest{}, &model.PlatformConnection{})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, []string{"Please connect your Facebook account first"}, notifier.bySeverity(model.SeverityError))
	backend.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestPublish_SingleInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &MockBackend{}
	backend.On("Publish", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&model.PublishResult{Success: true, PostID: "1"}, nil).Once()
	p, _ := newPipeline(backend)
	_, err := p.UpdateDraft(validSession.UserID, model.PlatformFacebook, dto.UpdateDraftRequest{Body: "hello"})
	require.NoError(t, err)

	errs := make(chan error, 1)
	go func() {
		_, err := p.Publish(context.Background(), validSession, model.FacebookRequest{}, connectedTo(model.PlatformFacebook))
		errs <- err
	}()
	<-started
	assert.Equal(t, model.StatusPublishing, p.Operation(validSession.UserID, model.PlatformFacebook).Status)

	_, err = p.Publish(context.Background(), validSession, model.FacebookRequest{}, connectedTo(model.PlatformFacebook))
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = p.UpdateDraft(validSession.UserID, model.PlatformFacebook, dto.UpdateDraftRequest{Body: "edit"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	close(release)
	require.NoError(t, <-errs)
	backend.AssertNumberOfCalls(t, "Publish", 1)
}

func TestPublish_SuccessClearsDraftAndCounts(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Publish", model.RedditRequest{Subreddit: "baking", Title: "Bread"}, mock.Anything).
		Return(&model.PublishResult{Success: true, PostURL: "https://reddit.com/r/baking/1"}, nil)
	p, notifier := newPipeline(backend)
	_, err := p.UpdateDraft(validSession.UserID, model.PlatformReddit, dto.UpdateDraftRequest{Body: "sourdough tips"})
	require.NoError(t, err)

	res, err := p.Publish(context.Background(), validSession, model.RedditRequest{Subreddit: "baking", Title: "Bread"}, connectedTo(model.PlatformReddit))
	require.NoError(t, err)
	assert.Equal(t, "https://reddit.com/r/baking/1", res.PostURL)

	op := p.Operation(validSession.UserID, model.PlatformReddit)
	assert.Equal(t, model.StatusSucceeded, op.Status)
	assert.True(t, op.Draft.IsEmpty())

	n, err := p.PostsToday(context.Background(), validSession.UserID, model.PlatformReddit)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []string{"Published to Reddit successfully!"}, notifier.bySeverity(model.SeveritySuccess))
}

func TestPublish_FailurePreservesDraft(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Publish", mock.Anything, mock.Anything).Return(nil, apperror.New(apperror.KindUpstream, ""))
	p, notifier := newPipeline(backend)
	_, err := p.UpdateDraft(validSession.UserID, model.PlatformWhatsApp, dto.UpdateDraftRequest{Body: "order now"})
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), validSession, model.WhatsAppRequest{PhoneNumberID: "1"}, connectedTo(model.PlatformWhatsApp))
	require.Error(t, err)

	op := p.Operation(validSession.UserID, model.PlatformWhatsApp)
	assert.Equal(t, model.StatusFailed, op.Status)
	assert.Equal(t, "order now", op.Draft.Body)
	assert.Equal(t, []string{"Failed to publish to WhatsApp"}, notifier.bySeverity(model.SeverityError))

	n, err := p.PostsToday(context.Background(), validSession.UserID, model.PlatformWhatsApp)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEnrich_YouTubeThumbnailsRequireSelection(t *testing.T) {
	backend := &MockBackend{}
	backend.On("GenerateThumbnails", mock.MatchedBy(func(r dto.GenerateThumbnailsRequest) bool {
		return r.Title == "Bake bread" && r.Count == 3
	})).Return(&dto.GenerateThumbnailsResponse{Success: true, Thumbnails: []dto.Thumbnail{
		{URL: "https://t/1", CTRScore: 0.42},
		{URL: "https://t/2", CTRScore: 0.71},
	}}, nil)
	backend.On("Publish", mock.Anything, mock.MatchedBy(func(d model.ContentDraft) bool {
		return d.SelectedThumbnailURL() == "https://t/2"
	})).Return(&model.PublishResult{Success: true}, nil)
	p, _ := newPipeline(backend)
	_, err := p.UpdateDraft(validSession.UserID, model.PlatformYouTube, dto.UpdateDraftRequest{Title: "Bake bread", MediaURL: "https://v/1"})
	require.NoError(t, err)

	op, err := p.Enrich(context.Background(), validSession, model.PlatformYouTube)
	require.NoError(t, err)
	require.Len(t, op.Draft.Thumbnails, 2)
	assert.Equal(t, -1, op.Draft.SelectedThumbnail)

	_, err = p.Publish(context.Background(), validSession, model.YouTubeRequest{}, connectedTo(model.PlatformYouTube))
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = p.SelectThumbnail(validSession.UserID, model.PlatformYouTube, 5)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = p.SelectThumbnail(validSession.UserID, model.PlatformYouTube, 1)
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), validSession, model.YouTubeRequest{}, connectedTo(model.PlatformYouTube))
	require.NoError(t, err)
	backend.AssertNumberOfCalls(t, "Publish", 1)
}

func TestEnrich_ImageForOtherPlatforms(t *testing.T) {
	backend := &MockBackend{}
	backend.On("GenerateImage", mock.MatchedBy(func(r dto.GenerateImageRequest) bool { return r.Platform == "instagram" })).
		Return(&dto.GenerateImageResponse{Success: true, ImageURL: "https://img/1"}, nil)
	p, _ := newPipeline(backend)

	_, err := p.Enrich(context.Background(), validSession, model.PlatformInstagram)
	assert.True(t, apperror.Is(err, apperror.KindValidation), "empty draft cannot be enriched")

	_, err = p.UpdateDraft(validSession.UserID, model.PlatformInstagram, dto.UpdateDraftRequest{Body: "new menu"})
	require.NoError(t, err)
	op, err := p.Enrich(context.Background(), validSession, model.PlatformInstagram)
	require.NoError(t, err)
	assert.Equal(t, "https://img/1", op.Draft.MediaURL)
	assert.Equal(t, model.StatusDraft, op.Status)
}

func TestStartAutomation_InstagramUnconfiguredRedirectsToSetup(t *testing.T) {
	backend := &MockBackend{}
	p, notifier := newPipeline(backend)
	unconfigured := model.DefaultProfile()

	decision, err := p.StartAutomation(context.Background(), validSession, model.PlatformInstagram, &unconfigured, connectedTo(model.PlatformInstagram), dto.AutomationRequest{PostsPerDay: 2})
	require.Error(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, usecase.TabSetup, decision.RedirectTo)
	assert.Equal(t, []string{"Please configure your profile first"}, notifier.bySeverity(model.SeverityError))
	backend.AssertNotCalled(t, "SetupAutoPosting", mock.Anything)
}

func TestStartAutomation_Ready(t *testing.T) {
	backend := &MockBackend{}
	backend.On("SetupAutoPosting", mock.MatchedBy(func(r dto.SetupAutoPostingRequest) bool {
		return r.Platform == "youtube" && r.PostsPerDay == 1 && r.Domain == "bakery"
	})).Return(&dto.SetupAutoPostingResponse{Success: true}, nil)
	p, notifier := newPipeline(backend)
	profile := configuredProfile

	decision, err := p.StartAutomation(context.Background(), validSession, model.PlatformYouTube, &profile, connectedTo(model.PlatformYouTube), dto.AutomationRequest{PostsPerDay: 1, Timezone: "UTC"})
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, []string{"YouTube automation started"}, notifier.bySeverity(model.SeveritySuccess))
}
