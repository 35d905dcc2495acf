package app

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"innerai_backend/internal/config"
	"innerai_backend/internal/email"
	"innerai_backend/internal/storage"
	"innerai_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, "alice@example.com", "secret1")
	testutil.CreateUser(t, db, "bob@example.com", "secret2")

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Auth.TokenSecret = "test-secret"
	cfg.Auth.TokenTTLMinutes = 60
	cfg.Auth.VerificationCodeTTLMinutes = 10
	cfg.Auth.KDFIterations = testutil.TestKDFIterations

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	container := InitializeServices(cfg, store, email.NewLogProvider())
	return &testServer{t: t, router: SetupRouter(cfg, db, container)}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(mail, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": mail, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expiresAt"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Token)
	require.NotEmpty(s.t, resp.ExpiresAt)
	return resp.Token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error.Code
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.login("alice@example.com", "secret1")

	w = s.do(http.MethodPost, "/api/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mail":"alice@example.com"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, "/api/auth/verify", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/task-submissions"},
		{http.MethodPost, "/api/task-submissions"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/meeting-records"},
		{http.MethodPost, "/api/options/client"},
	} {
		w := s.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		w = s.do(tc.method, tc.path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}
}

func TestSubmissionEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice@example.com", "secret1")

	body := map[string]interface{}{
		"client":            "日昇科技",
		"vendor":            "青雲材料",
		"product":           "智慧儀表 X1",
		"tag":               "客戶跟進",
		"related_user_mail": []string{"alice@example.com", "bob@example.com"},
		"scheduled_at":      "2024-01-01T02:00:00.000Z",
		"follow_up":         []interface{}{"call back", map[string]interface{}{"content": "quote"}},
	}
	w := s.do(http.MethodPost, "/api/task-submissions", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	w = s.do(http.MethodGet, "/api/task-submissions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []struct {
		ID               uint     `json:"id"`
		ScheduledAt      string   `json:"scheduled_at"`
		Tags             []string `json:"tags"`
		PendingFollowUps int      `json:"pending_follow_ups"`
		RelatedUsers     []struct {
			Mail string `json:"mail"`
		} `json:"related_users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "2024-01-01 10:00:00", list[0].ScheduledAt)
	assert.Equal(t, []string{"客戶跟進"}, list[0].Tags)
	assert.Len(t, list[0].RelatedUsers, 2)
	assert.Equal(t, 2, list[0].PendingFollowUps)

	w = s.do(http.MethodPut, "/api/task-submissions/abc", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/task-submissions/999", token, body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body["related_user_mail"] = []string{"ghost@example.com"}
	w = s.do(http.MethodPost, "/api/task-submissions", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_RELATED_USER", errorCode(t, w))

	w = s.do(http.MethodGet, "/api/task-submissions/follow-up-summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"2024-01-01":{"total":2,"pending":2}}`, w.Body.String())

	w = s.do(http.MethodDelete, "/api/task-submissions/1", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, "/api/task-submissions/1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmissionValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice@example.com", "secret1")

	w := s.do(http.MethodPost, "/api/task-submissions", token, map[string]interface{}{
		"client":       " ",
		"vendor":       "v",
		"product":      "p",
		"scheduled_at": "31/12/2024",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, w))
	assert.Contains(t, w.Body.String(), "scheduled_at")

	req := httptest.NewRequest(http.MethodPost, "/api/task-submissions", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptionEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/options/client", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Len(t, names, 4)

	w = s.do(http.MethodGet, "/api/options/planet", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := s.login("bob@example.com", "secret2")
	w = s.do(http.MethodPost, "/api/options/vendor", token, map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusCreated, w.Code)
	w = s.do(http.MethodPost, "/api/options/vendor", token, map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/follow-up-statuses", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "已完成")
}

func TestMeetingEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice@example.com", "secret1")

	w := s.do(http.MethodPost, "/api/meeting-records", token, map[string]interface{}{
		"client":       "ACME",
		"vendor":       "Globex",
		"product":      "Widget",
		"meeting_time": "2024-03-01 09:30",
		"files": []map[string]string{
			{"name": "minutes.txt", "type": "text/plain", "contentBase64": base64.StdEncoding.EncodeToString([]byte("agenda"))},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID      uint   `json:"id"`
		Records []uint `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created.Records, 1)

	w = s.do(http.MethodGet, "/api/meeting-records", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"content_text":"agenda"`)

	w = s.do(http.MethodGet, "/api/meeting-records/files/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "agenda", w.Body.String())
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "minutes.txt")

	w = s.do(http.MethodGet, "/api/meeting-records/files/99", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/meeting-records", token, map[string]interface{}{
		"client": "ACME", "vendor": "Globex", "product": "Widget", "meeting_time": "2024-03-01 09:30",
		"files": []map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice@example.com", "secret1")
	other := s.login("alice@example.com", "secret1")

	w := s.do(http.MethodGet, "/api/users", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bob@example.com")

	// второй вход вытеснил первый токен
	w = s.do(http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPut, "/api/users/me", other, map[string]string{"username": "Alice", "icon": "A", "icon_bg": "#fff"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"Alice"`)

	w = s.do(http.MethodPut, "/api/users/me/password", other, map[string]string{"current_password": "nope", "new_password": "secret9"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPut, "/api/users/me/password", other, map[string]string{"current_password": "secret1", "new_password": "secret9"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	s.login("alice@example.com", "secret9")
}

func TestHealthCORSAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"database":true,"dify":false}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodOptions, "/api/task-submissions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	w = s.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}
