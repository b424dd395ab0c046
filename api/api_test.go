package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chanyong1027/sesac-team2-sub001/api"
	"github.com/chanyong1027/sesac-team2-sub001/apierr"
	"github.com/chanyong1027/sesac-team2-sub001/refresh"
	"github.com/chanyong1027/sesac-team2-sub001/session"
	"github.com/chanyong1027/sesac-team2-sub001/storage"
	"github.com/chanyong1027/sesac-team2-sub001/transport"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "dev@example.com"
	testPassword = "password123"
)

// backend is a scripted stand-in for the real API: it mints HS256 access
// tokens, rotates the pair on refresh, and rejects anything but the current
// access token on authenticated routes.
type backend struct {
	mu           sync.Mutex
	secret       []byte
	serial       int
	access       string
	refreshToken string
	refreshCalls int32
	refreshDelay time.Duration
	refreshFails bool
}

func newBackend() *backend {
	return &backend{secret: []byte("test-signing-secret")}
}

func (b *backend) mintPair() (string, string) {
	b.serial++
	claims := jwt.MapClaims{
		"sub":   "7",
		"email": testEmail,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
		"ser":   b.serial,
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(err)
	}
	refreshToken := fmt.Sprintf("rt-%d", b.serial)
	b.access = access
	b.refreshToken = refreshToken
	return access, refreshToken
}

// expireAccess invalidates the current access token while keeping the refresh
// token valid, simulating access-token expiry on the server side.
func (b *backend) expireAccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.access = "expired"
}

// revokeRefresh makes the next refresh call fail.
func (b *backend) revokeRefresh() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshFails = true
}

func (b *backend) authorized(r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return r.Header.Get("Authorization") == "Bearer "+b.access
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != testEmail || body["password"] != testPassword {
			writeEnvelope(w, 401, "C401", "이메일 또는 비밀번호가 올바르지 않습니다.")
			return
		}
		b.mu.Lock()
		access, refreshToken := b.mintPair()
		b.mu.Unlock()
		writeBody(w, 200, api.TokenResponse{AccessToken: access, RefreshToken: refreshToken})
	})

	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.refreshCalls, 1)
		if b.refreshDelay > 0 {
			time.Sleep(b.refreshDelay)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		b.mu.Lock()
		defer b.mu.Unlock()
		if b.refreshFails || body["refreshToken"] != b.refreshToken {
			writeEnvelope(w, 401, "C401", "유효하지 않은 리프레시 토큰입니다.")
			return
		}
		access, refreshToken := b.mintPair()
		writeBody(w, 200, api.TokenResponse{AccessToken: access, RefreshToken: refreshToken})
	})

	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeEnvelope(w, 401, "C401", "토큰이 만료되었습니다.")
			return
		}
		writeBody(w, 200, session.User{ID: 7, Email: testEmail, Name: "dev"})
	})

	mux.HandleFunc("GET /workspaces", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeEnvelope(w, 401, "C401", "토큰이 만료되었습니다.")
			return
		}
		writeBody(w, 200, []api.Workspace{{ID: 1, Name: "default"}})
	})

	mux.HandleFunc("POST /workspaces/1/prompts", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeEnvelope(w, 401, "C401", "토큰이 만료되었습니다.")
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeBody(w, 201, api.Prompt{ID: 11, WorkspaceID: 1, Name: body["name"], Content: body["content"]})
	})

	return mux
}

func writeEnvelope(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}

func writeBody(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type apiFixture struct {
	backend *backend
	session *session.Session
	auth    *api.Auth
	client  *transport.Client
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()

	b := newBackend()
	server := httptest.NewServer(b.handler())
	t.Cleanup(server.Close)

	sess, err := session.New(storage.NewMemStore())
	require.NoError(t, err)

	coordinator, err := refresh.New(sess, api.RefreshFunc(server.URL, server.Client()))
	require.NoError(t, err)

	client, err := transport.New(server.URL, sess, coordinator, transport.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	auth, err := api.NewAuth(server.URL, server.Client(), sess, client)
	require.NoError(t, err)

	return &apiFixture{backend: b, session: sess, auth: auth, client: client}
}

func (f *apiFixture) login(t *testing.T) {
	t.Helper()
	_, err := f.auth.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
}

func TestLoginStoresPairAndIdentity(t *testing.T) {
	f := setupAPI(t)

	user, err := f.auth.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, session.User{ID: 7, Email: testEmail, Name: "dev"}, user)

	pair, ok := f.session.Tokens()
	require.True(t, ok)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	got, ok := f.session.User()
	require.True(t, ok)
	require.Equal(t, user, got)
}

func TestLoginFailureDoesNotTouchSession(t *testing.T) {
	f := setupAPI(t)

	_, err := f.auth.Login(context.Background(), testEmail, "wrong")
	require.True(t, apierr.IsUnauthorized(err))

	_, ok := f.session.Tokens()
	require.False(t, ok)
	require.Zero(t, atomic.LoadInt32(&f.backend.refreshCalls),
		"a failed login must not trigger a refresh")
}

func TestExpiredAccessTokenIsRefreshedTransparently(t *testing.T) {
	f := setupAPI(t)
	f.login(t)
	f.backend.expireAccess()

	user, err := f.auth.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, testEmail, user.Email)
	require.Equal(t, int32(1), atomic.LoadInt32(&f.backend.refreshCalls))
}

func TestConcurrentExpiryCausesOneRefresh(t *testing.T) {
	f := setupAPI(t)
	f.login(t)
	f.backend.expireAccess()
	f.backend.refreshDelay = 50 * time.Millisecond

	workspaces := api.NewWorkspaces(f.client)

	const n = 6
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = workspaces.List(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d", i)
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&f.backend.refreshCalls),
		"concurrent 401s must share one refresh")
}

func TestRevokedRefreshTokenLogsOut(t *testing.T) {
	f := setupAPI(t)
	f.login(t)
	f.backend.expireAccess()
	f.backend.revokeRefresh()

	_, err := f.auth.Me(context.Background())
	require.ErrorIs(t, err, apierr.ErrSessionExpired)

	_, ok := f.session.Tokens()
	require.False(t, ok, "fatal refresh failure clears the session")
}

func TestPromptCreateSurvivesExpiry(t *testing.T) {
	f := setupAPI(t)
	f.login(t)
	f.backend.expireAccess()

	prompts := api.NewPrompts(f.client)
	created, err := prompts.Create(context.Background(), 1, "greeting", "say hi")
	require.NoError(t, err)
	require.Equal(t, "greeting", created.Name)
	require.Equal(t, "say hi", created.Content)
}

func TestLogoutClearsSession(t *testing.T) {
	f := setupAPI(t)
	f.login(t)

	require.NoError(t, f.auth.Logout())
	_, ok := f.session.Tokens()
	require.False(t, ok)
}
