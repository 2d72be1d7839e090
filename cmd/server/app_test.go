package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/task-tracker-api/internal/config"
	"github.com/phrazzld/task-tracker-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-very-long-test-secret-of-at-least-32-chars"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			LogLevel:        "error",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		Database: config.DatabaseConfig{Driver: config.DriverMemory, MaxOpenConns: 1},
		Auth:     config.AuthConfig{JWTSecret: testSecret, BcryptCost: 4},
		RateLimit: config.RateLimitConfig{
			Enabled:  false,
			Requests: 100,
			Window:   10 * time.Minute,
		},
	}
}

// testServer is a running server backed by the in-memory stores.
type testServer struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app, err := newApplication(cfg, log, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv}
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Current int `json:"current"`
		Limit   int `json:"limit"`
		Total   int `json:"total"`
		Pages   int `json:"pages"`
	} `json:"pagination"`
}

type taskJSON struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (s *testServer) do(method, path, token string, body any) (*http.Response, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(s.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp, env
}

// register creates a user and returns its token.
func (s *testServer) register(username, email, password string) string {
	s.t.Helper()
	resp, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"fullName": strings.ToUpper(username[:1]) + username[1:],
		"gender":   "other",
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(s.t, data.Token)
	return data.Token
}

func (s *testServer) createTask(token, title, desc string) taskJSON {
	s.t.Helper()
	resp, env := s.do(http.MethodPost, "/api/task/create", token, map[string]string{
		"title":       title,
		"description": desc,
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, env.Message)
	var task taskJSON
	require.NoError(s.t, json.Unmarshal(env.Data, &task))
	return task
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t, testConfig())

	resp, err := s.srv.Client().Get(s.srv.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var root map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&root))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Server is running", root["message"])

	health, err := s.srv.Client().Get(s.srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = health.Body.Close() }()
	body, err := io.ReadAll(health.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, health.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, testConfig())
	resp, env := s.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestAliceScenario(t *testing.T) {
	s := newTestServer(t, testConfig())

	resp, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "a@x.io", "password": "pw123", "fullName": "Alice A", "gender": "female",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "User registered successfully", env.Message)
	assert.NotContains(t, string(env.Data), "pw123")
	assert.NotContains(t, string(env.Data), "$2a$")

	resp, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.io", "password": "pw123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Login successful", env.Message)
	var login struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
			FullName string `json:"fullName"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, "alice", login.User.Username)
	assert.Equal(t, "Alice A", login.User.FullName)
	token := login.Token

	task := s.createTask(token, "Buy milk", "2L")
	assert.Equal(t, "pending", task.Status)
	assert.Equal(t, login.User.ID, task.UserID)

	resp, env = s.do(http.MethodGet, "/api/task?search=MILK", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []taskJSON
	require.NoError(t, json.Unmarshal(env.Data, &found))
	require.Len(t, found, 1)
	assert.Equal(t, task.ID, found[0].ID)
	assert.Equal(t, 1, env.Pagination.Total)

	resp, env = s.do(http.MethodPut, "/api/task/"+task.ID, token, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Task updated successfully", env.Message)
	var updated taskJSON
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "Buy milk", updated.Title)

	resp, env = s.do(http.MethodGet, "/api/task?status=pending", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))

	resp, env = s.do(http.MethodDelete, "/api/task/"+task.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Task deleted successfully", env.Message)

	resp, env = s.do(http.MethodGet, "/api/task/"+task.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Task not found", env.Message)

	resp, env = s.do(http.MethodGet, "/api/user/search?username=alice", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(env.Data), "password")
}

func TestDuplicateRegistration(t *testing.T) {
	s := newTestServer(t, testConfig())
	s.register("alice", "a@x.io", "pw123")

	tests := []struct {
		name      string
		username  string
		email     string
		wantError string
	}{
		{"same email", "alice2", "a@x.io", "Email already exists"},
		{"same username", "alice", "other@x.io", "Username already exists"},
		{"both taken", "alice", "a@x.io", "Email already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
				"username": tt.username, "email": tt.email, "password": "pw", "fullName": "X", "gender": "x",
			})
			assert.Equal(t, http.StatusConflict, resp.StatusCode)
			assert.Equal(t, tt.wantError, env.Message)
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t, testConfig())
	s.register("alice", "a@x.io", "pw123")

	wrongPw, wrongPwEnv := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.io", "password": "nope"})
	unknown, unknownEnv := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "b@x.io", "password": "pw123"})

	assert.Equal(t, http.StatusUnauthorized, wrongPw.StatusCode)
	assert.Equal(t, wrongPw.StatusCode, unknown.StatusCode)
	assert.Equal(t, "Invalid credentials", wrongPwEnv.Message)
	assert.Equal(t, wrongPwEnv.Message, unknownEnv.Message)

	malformed, malformedEnv := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "not-an-email", "password": "pw123"})
	assert.Equal(t, http.StatusUnauthorized, malformed.StatusCode)
	assert.Equal(t, wrongPwEnv.Message, malformedEnv.Message)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, testConfig())

	resp, env := s.do(http.MethodGet, "/api/task", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized, no token", env.Message)

	resp, env = s.do(http.MethodGet, "/api/task", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized, token failed", env.Message)

	// a token signed for another deployment
	other := newTestServer(t, testConfig())
	foreign := other.register("mallory", "m@x.io", "pw")
	resp, env = s.do(http.MethodGet, "/api/task", foreign, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized, user not found", env.Message)
}

func TestCrossUserIsolation(t *testing.T) {
	s := newTestServer(t, testConfig())
	alice := s.register("alice", "a@x.io", "pw")
	bob := s.register("bob", "b@x.io", "pw")

	task := s.createTask(alice, "Secret", "alice only")

	resp, env := s.do(http.MethodGet, "/api/task/"+task.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Task not found", env.Message)

	resp, _ = s.do(http.MethodPut, "/api/task/"+task.ID, bob, map[string]string{"title": "pwned"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(http.MethodDelete, "/api/task/"+task.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, env = s.do(http.MethodGet, "/api/task", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, env.Pagination.Total)

	resp, env = s.do(http.MethodGet, "/api/task/"+task.ID, alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got taskJSON
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Secret", got.Title)

	resp, env = s.do(http.MethodGet, "/api/task/not-a-uuid", alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid task ID", env.Message)
}

func TestPagination(t *testing.T) {
	s := newTestServer(t, testConfig())
	token := s.register("alice", "a@x.io", "pw")

	var created []taskJSON
	for i := 1; i <= 25; i++ {
		created = append(created, s.createTask(token, fmt.Sprintf("task %02d", i), "d"))
	}

	resp, env := s.do(http.MethodGet, "/api/task?page=2&limit=10", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Current)
	assert.Equal(t, 10, env.Pagination.Limit)
	assert.Equal(t, 25, env.Pagination.Total)
	assert.Equal(t, 3, env.Pagination.Pages)

	var page []taskJSON
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page, 10)

	// collect every page and check the full listing has no gaps or repeats
	seen := map[string]bool{}
	for p := 1; p <= 3; p++ {
		_, env := s.do(http.MethodGet, fmt.Sprintf("/api/task?page=%d&limit=10", p), token, nil)
		var tasks []taskJSON
		require.NoError(t, json.Unmarshal(env.Data, &tasks))
		for _, task := range tasks {
			assert.False(t, seen[task.ID])
			seen[task.ID] = true
		}
	}
	for _, task := range created {
		assert.True(t, seen[task.ID], "task %s listed", task.Title)
	}

	resp, env = s.do(http.MethodGet, "/api/task?limit=1000", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 100, env.Pagination.Limit)

	resp, env = s.do(http.MethodGet, "/api/task?page=9223372036854775807&limit=10", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.MaxPage, env.Pagination.Current)
	assert.Equal(t, 25, env.Pagination.Total)
	var beyond []taskJSON
	require.NoError(t, json.Unmarshal(env.Data, &beyond))
	assert.Empty(t, beyond)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Hour}
	s := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		resp, _ := s.do(http.MethodGet, "/api/task", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("RateLimit-Limit"))
	}

	resp, env := s.do(http.MethodGet, "/api/task", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many requests, please try again later.", env.Message)
	assert.Equal(t, "0", resp.Header.Get("RateLimit-Remaining"))
}

func TestRunMigrateRequiresPostgres(t *testing.T) {
	t.Setenv("TASKS_DATABASE_DRIVER", config.DriverMemory)
	t.Setenv("TASKS_AUTH_JWT_SECRET", testSecret)
	t.Setenv("TASKS_SERVER_LOG_LEVEL", "error")

	err := run(context.Background(), []string{"-migrate", "up"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestRunRejectsBadConfig(t *testing.T) {
	t.Setenv("TASKS_DATABASE_DRIVER", config.DriverMemory)
	t.Setenv("TASKS_AUTH_JWT_SECRET", "short")

	err := run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	assert.Error(t, run(context.Background(), []string{"-bogus"}))
}

func TestRunServesUntilCanceled(t *testing.T) {
	t.Setenv("TASKS_DATABASE_DRIVER", config.DriverMemory)
	t.Setenv("TASKS_AUTH_JWT_SECRET", testSecret)
	t.Setenv("TASKS_SERVER_LOG_LEVEL", "error")
	t.Setenv("TASKS_SERVER_PORT", "38471")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
