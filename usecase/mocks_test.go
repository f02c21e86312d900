package usecase_test

import (
	"context"
	"sync"

	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) AuthorizationURL(ctx context.Context, session *model.Session, platform model.PlatformID, callbackPath string) (string, error) {
	args := m.Called(platform, callbackPath)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) ExchangeCode(ctx context.Context, session *model.Session, platform model.PlatformID, req dto.OAuthCallbackRequest) (*dto.ConnectionInfo, error) {
	args := m.Called(platform, req)
	info, _ := args.Get(0).(*dto.ConnectionInfo)
	return info, args.Error(1)
}

func (m *MockBackend) ConnectionStatus(ctx context.Context, session *model.Session, platform model.PlatformID) (*dto.ConnectionInfo, error) {
	args := m.Called(platform)
	info, _ := args.Get(0).(*dto.ConnectionInfo)
	return info, args.Error(1)
}

func (m *MockBackend) GenerateContent(ctx context.Context, session *model.Session, req dto.GenerateContentRequest) (*dto.GenerateContentResponse, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*dto.GenerateContentResponse)
	return res, args.Error(1)
}

func (m *MockBackend) GenerateImage(ctx context.Context, session *model.Session, req dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*dto.GenerateImageResponse)
	return res, args.Error(1)
}

func (m *MockBackend) GenerateThumbnails(ctx context.Context, session *model.Session, req dto.GenerateThumbnailsRequest) (*dto.GenerateThumbnailsResponse, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*dto.GenerateThumbnailsResponse)
	return res, args.Error(1)
}

func (m *MockBackend) Publish(ctx context.Context, session *model.Session, req model.PlatformRequest, draft model.ContentDraft) (*model.PublishResult, error) {
	args := m.Called(req, draft)
	res, _ := args.Get(0).(*model.PublishResult)
	return res, args.Error(1)
}

func (m *MockBackend) SetupAutoPosting(ctx context.Context, session *model.Session, req dto.SetupAutoPostingRequest) (*dto.SetupAutoPostingResponse, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*dto.SetupAutoPostingResponse)
	return res, args.Error(1)
}

type MockExchanger struct {
	mock.Mock
}

func (m *MockExchanger) Exchange(ctx context.Context, session *model.Session, platform model.PlatformID, params model.CallbackParams) (*dto.ConnectionInfo, error) {
	args := m.Called(platform, params.Code, params.State)
	info, _ := args.Get(0).(*dto.ConnectionInfo)
	return info, args.Error(1)
}

// recordingNotifier keeps every notification in order.
type recordingNotifier struct {
	mu    sync.Mutex
	items []model.Notification
}

func (r *recordingNotifier) Push(userID string, severity model.Severity, message string) model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := model.Notification{ID: userID, Message: message, Severity: severity}
	r.items = append(r.items, n)
	return n
}

func (r *recordingNotifier) bySeverity(s model.Severity) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.items {
		if n.Severity == s {
			out = append(out, n.Message)
		}
	}
	return out
}

// countingConnections wraps a connection store and counts writes.
type countingConnections struct {
	mu      sync.Mutex
	writes  int
	records map[string]model.PlatformConnection
}

func newCountingConnections() *countingConnections {
	return &countingConnections{records: map[string]model.PlatformConnection{}}
}

func (c *countingConnections) Get(ctx context.Context, userID string, platform model.PlatformID) (*model.PlatformConnection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[userID+":"+string(platform)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (c *countingConnections) Upsert(ctx context.Context, conn *model.PlatformConnection) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	c.records[conn.UserID+":"+string(conn.Platform)] = *conn
	return nil
}

func (c *countingConnections) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

var validSession = &model.Session{UserID: "u-1", Email: "owner@shop.test", BearerToken: "jwt"}
