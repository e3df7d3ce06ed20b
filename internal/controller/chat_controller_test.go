package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-supportchat-be/internal/apperror"
	"ai-supportchat-be/internal/dto"
	"ai-supportchat-be/internal/entity"
	"ai-supportchat-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBearer = "good-token"

var testAccount = &entity.Account{
	Id:     uuid.New(),
	Email:  "sam@example.com",
	Status: entity.AccountStatusActive,
}

type fakeAuthService struct{}

func (fakeAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Password != "s3cret" {
		return nil, apperror.New(apperror.KindUnauthenticated, "invalid credentials")
	}
	return &dto.LoginResponse{
		AccessToken: testBearer,
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
		Account:     dto.AccountResponse{Id: testAccount.Id, Email: testAccount.Email},
	}, nil
}

func (fakeAuthService) VerifyToken(ctx context.Context, rawToken string) (*entity.Account, error) {
	if rawToken != testBearer {
		return nil, apperror.New(apperror.KindUnauthenticated, "invalid or expired token")
	}
	return testAccount, nil
}

// fakeChatService returns canned results per method; err wins when set.
type fakeChatService struct {
	sendResp *dto.SendMessageResponse
	err      error

	lastSessionId string
	lastMessage   string
}

func (f *fakeChatService) CreateSession(ctx context.Context, account *entity.Account) (*dto.CreateSessionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CreateSessionResponse{
		SessionId: "public-session-id",
		Title:     "New conversation",
		Status:    "active",
		CreatedAt: time.Now(),
	}, nil
}

func (f *fakeChatService) ListSessions(ctx context.Context, account *entity.Account) ([]*dto.SessionSummaryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*dto.SessionSummaryResponse{}, nil
}

func (f *fakeChatService) GetSession(ctx context.Context, account *entity.Account, publicSessionId string) (*dto.SessionDetailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastSessionId = publicSessionId
	return &dto.SessionDetailResponse{SessionId: publicSessionId, Turns: []*dto.TurnResponse{}}, nil
}

func (f *fakeChatService) GetHistory(ctx context.Context, account *entity.Account, publicSessionId string) ([]*dto.TurnResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastSessionId = publicSessionId
	return []*dto.TurnResponse{}, nil
}

func (f *fakeChatService) SendMessage(ctx context.Context, account *entity.Account, publicSessionId string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastSessionId = publicSessionId
	f.lastMessage = req.Message
	return f.sendResp, nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestApp(chatSvc *fakeChatService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(nopLogger{}))

	api := app.Group("/api")
	NewAuthController(fakeAuthService{}).RegisterRoutes(api)
	NewChatController(chatSvc).RegisterRoutes(api, serverutils.AuthMiddleware(fakeAuthService{}))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestChatRoutesRequireBearerToken(t *testing.T) {
	app := newTestApp(&fakeChatService{})

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/chat/session"},
		{http.MethodGet, "/api/chat/sessions"},
		{http.MethodGet, "/api/chat/session/abc"},
		{http.MethodGet, "/api/chat/session/abc/messages"},
		{http.MethodPost, "/api/chat/session/abc/message"},
	} {
		status, body := doJSON(t, app, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, status, route.path)
		assert.Equal(t, false, body["success"], route.path)
		assert.Equal(t, "UNAUTHENTICATED", body["error_type"], route.path)
	}
}

func TestChatRoutesRejectBadToken(t *testing.T) {
	app := newTestApp(&fakeChatService{})

	status, body := doJSON(t, app, http.MethodGet, "/api/chat/sessions", "stale-token", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", body["error_type"])
}

func TestCreateSessionReturns201(t *testing.T) {
	app := newTestApp(&fakeChatService{})

	status, body := doJSON(t, app, http.MethodPost, "/api/chat/session", testBearer, "")
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "public-session-id", data["session_id"])
	assert.Equal(t, "active", data["status"])
}

func TestSendMessagePassesBodyAndParam(t *testing.T) {
	svc := &fakeChatService{
		sendResp: &dto.SendMessageResponse{
			SessionId: "sess-1",
			Sent:      &dto.TurnResponse{Role: "user", Content: "hello"},
			Reply:     &dto.TurnResponse{Role: "assistant", Content: "hi there"},
			Analysis:  &dto.AnalysisDTO{EmotionalState: "calm", RiskLevel: 1},
			Progress:  &dto.ProgressSummaryDTO{EmotionalState: "calm", RiskLevel: 1},
		},
	}
	app := newTestApp(svc)

	status, body := doJSON(t, app, http.MethodPost, "/api/chat/session/sess-1/message", testBearer,
		`{"message":"hello"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "sess-1", svc.lastSessionId)
	assert.Equal(t, "hello", svc.lastMessage)

	data := body["data"].(map[string]interface{})
	reply := data["reply"].(map[string]interface{})
	assert.Equal(t, "hi there", reply["content"])
	analysis := data["analysis"].(map[string]interface{})
	assert.Equal(t, "calm", analysis["emotionalState"])
	assert.Equal(t, float64(1), analysis["riskLevel"])
}

func TestSendMessageRejectsEmptyMessage(t *testing.T) {
	app := newTestApp(&fakeChatService{})

	status, body := doJSON(t, app, http.MethodPost, "/api/chat/session/sess-1/message", testBearer,
		`{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MALFORMED_REQUEST", body["error_type"])
}

func TestSendMessageRejectsOversizedMessage(t *testing.T) {
	app := newTestApp(&fakeChatService{})

	payload := `{"message":"` + strings.Repeat("a", 4001) + `"}`
	status, body := doJSON(t, app, http.MethodPost, "/api/chat/session/sess-1/message", testBearer, payload)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MALFORMED_REQUEST", body["error_type"])
}

func TestSendMessageRejectsInvalidJSON(t *testing.T) {
	app := newTestApp(&fakeChatService{})

	status, body := doJSON(t, app, http.MethodPost, "/api/chat/session/sess-1/message", testBearer,
		`{"message":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MALFORMED_REQUEST", body["error_type"])
}

func TestServiceErrorsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "unknown session",
			err:        apperror.New(apperror.KindSessionNotFound, "session not found"),
			wantStatus: http.StatusNotFound,
			wantType:   "SESSION_NOT_FOUND",
		},
		{
			name:       "foreign session",
			err:        apperror.New(apperror.KindForbidden, "you do not have access to this session"),
			wantStatus: http.StatusForbidden,
			wantType:   "FORBIDDEN",
		},
		{
			name:       "daily limit",
			err:        apperror.New(apperror.KindLimitExceeded, "daily message limit exceeded"),
			wantStatus: http.StatusTooManyRequests,
			wantType:   "LIMIT_EXCEEDED",
		},
		{
			name:       "relay down",
			err:        apperror.New(apperror.KindRelayUnavailable, "event relay unavailable"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "RELAY_UNAVAILABLE",
		},
		{
			name:       "gateway down",
			err:        apperror.New(apperror.KindGenerationUnavailable, "generation gateway unavailable"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "GENERATION_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeChatService{err: tt.err})

			status, body := doJSON(t, app, http.MethodPost, "/api/chat/session/sess-1/message", testBearer,
				`{"message":"hello"}`)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantType, body["error_type"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestServerErrorsHideProviderDetail(t *testing.T) {
	wrapped := apperror.Wrap(apperror.KindGenerationUnavailable, "generation gateway unavailable",
		assert.AnError)
	app := newTestApp(&fakeChatService{err: wrapped})

	status, body := doJSON(t, app, http.MethodPost, "/api/chat/session/sess-1/message", testBearer,
		`{"message":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "the request could not be completed", body["message"])
	assert.NotContains(t, body, "data")
}

func TestLoginValidatesBody(t *testing.T) {
	app := newTestApp(&fakeChatService{})

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		`{"email":"not-an-email","password":"s3cret"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MALFORMED_REQUEST", body["error_type"])
}

func TestLoginReturnsToken(t *testing.T) {
	app := newTestApp(&fakeChatService{})

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		`{"email":"sam@example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, testBearer, data["access_token"])
	assert.Equal(t, "Bearer", data["token_type"])
}
