package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/pkg/logger"
	"skill-swap/internal/types/environments"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t   *testing.T
	app *App
	dir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		App: config.AppConfig{
			AppName:            "SkillSwap",
			Environment:        environments.Test,
			HTTPPort:           "0",
			BasePath:           "/api",
			PublicURL:          "http://localhost:3000",
			CORSAllowedOrigins: []string{"*"},
			StorageDriver:      config.StorageDriverMemory,
			BcryptCost:         bcrypt.MinCost,
		},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpiresIn: time.Hour, ResetExpiresIn: time.Hour},
		Redis:  config.RedisConfig{TTL: time.Minute},
		Upload: config.UploadConfig{Driver: config.UploadDriverLocal, Dir: dir, URLPrefix: "/uploads"},
	}

	a, cleanup, err := Bootstrap(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return &testServer{t: t, app: a, dir: dir}
}

func (s *testServer) do(req *http.Request) (*http.Response, envelope) {
	s.t.Helper()
	resp, err := s.app.Fiber.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(s.t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(s.t, json.Unmarshal(b, &env), string(b))
	}
	return resp, env
}

func (s *testServer) json(method, path, token string, body any) (*http.Response, envelope) {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.do(req)
}

type authData struct {
	User struct {
		ID            string   `json:"id"`
		Email         string   `json:"email"`
		SkillsOffered []string `json:"skillsOffered"`
		IsPublic      bool     `json:"isPublic"`
		ProfilePhoto  *string  `json:"profilePhoto"`
	} `json:"user"`
	Token string `json:"token"`
}

func (s *testServer) register(name, email string, offered, wanted []string) authData {
	s.t.Helper()
	resp, env := s.json(fiber.MethodPost, "/api/auth/register", "", map[string]any{
		"name":          name,
		"email":         email,
		"password":      "secret123",
		"location":      "Berlin",
		"availability":  "weekends",
		"skillsOffered": offered,
		"skillsWanted":  wanted,
	})
	require.Equal(s.t, fiber.StatusCreated, resp.StatusCode, env.Message)

	var out authData
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(s.t, out.Token)
	return out
}

type swapList struct {
	Requests []struct {
		ID           string `json:"id"`
		Status       string `json:"status"`
		Type         string `json:"type"`
		SenderName   string `json:"senderName"`
		ReceiverName string `json:"receiverName"`
	} `json:"requests"`
}

func (s *testServer) listSwaps(token, query string) swapList {
	s.t.Helper()
	resp, env := s.json(fiber.MethodGet, "/api/swap-requests"+query, token, nil)
	require.Equal(s.t, fiber.StatusOK, resp.StatusCode, env.Message)
	var out swapList
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	return out
}

func TestSwapLifecycleEndToEnd(t *testing.T) {
	s := newTestServer(t)
	a := s.register("Alice", "alice@example.com", []string{"Guitar"}, []string{"Piano"})
	b := s.register("Bob", "bob@example.com", []string{"Piano"}, []string{"Guitar"})

	resp, env := s.json(fiber.MethodPost, "/api/swap-requests", a.Token, map[string]string{
		"receiverId":   b.User.ID,
		"offeredSkill": "Guitar",
		"wantedSkill":  "Piano",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	assert.Equal(t, "Swap request sent successfully", env.Message)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	resp, env = s.json(fiber.MethodPost, "/api/swap-requests", a.Token, map[string]string{
		"receiverId":   b.User.ID,
		"offeredSkill": "Guitar",
		"wantedSkill":  "Piano",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "You already have a pending request with this user", env.Message)

	sent := s.listSwaps(a.Token, "?status=pending")
	require.Len(t, sent.Requests, 1)
	assert.Equal(t, "sent", sent.Requests[0].Type)
	assert.Equal(t, "Bob", sent.Requests[0].ReceiverName)

	received := s.listSwaps(b.Token, "")
	require.Len(t, received.Requests, 1)
	assert.Equal(t, "received", received.Requests[0].Type)
	assert.Equal(t, "Alice", received.Requests[0].SenderName)

	resp, env = s.json(fiber.MethodPut, "/api/swap-requests/"+created.ID, a.Token, map[string]string{"status": "accepted"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "You can only respond to requests sent to you", env.Message)

	resp, env = s.json(fiber.MethodPut, "/api/swap-requests/"+created.ID, b.Token, map[string]string{"status": "accepted"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Equal(t, "Request accepted successfully", env.Message)

	for _, tok := range []string{a.Token, b.Token} {
		l := s.listSwaps(tok, "")
		require.Len(t, l.Requests, 1)
		assert.Equal(t, "accepted", l.Requests[0].Status)
	}

	resp, env = s.json(fiber.MethodPut, "/api/swap-requests/"+created.ID, b.Token, map[string]string{"status": "rejected"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "This request has already been responded to", env.Message)

	resp, _ = s.json(fiber.MethodDelete, "/api/swap-requests/"+created.ID, a.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, s.listSwaps(b.Token, "").Requests)
}

func TestSwapRequestsRequireAuth(t *testing.T) {
	s := newTestServer(t)
	resp, env := s.json(fiber.MethodGet, "/api/swap-requests", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", env.Message)
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)
	a := s.register("Alice", "Alice@Example.com", []string{"Guitar"}, []string{})
	assert.Equal(t, "alice@example.com", a.User.Email)
	assert.True(t, a.User.IsPublic)

	t.Run("duplicate email", func(t *testing.T) {
		resp, env := s.json(fiber.MethodPost, "/api/auth/register", "", map[string]any{
			"name": "A", "email": "ALICE@example.com", "password": "secret123", "location": "x",
			"availability": "Flexible", "skillsOffered": []string{}, "skillsWanted": []string{},
		})
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		assert.Equal(t, "User with this email already exists", env.Message)
	})

	t.Run("oversized password is rejected before hashing", func(t *testing.T) {
		resp, env := s.json(fiber.MethodPost, "/api/auth/register", "", map[string]any{
			"name": "A", "email": "long@example.com", "password": strings.Repeat("p", 100), "location": "x",
			"availability": "Flexible", "skillsOffered": []string{}, "skillsWanted": []string{},
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `[{"field":"password","rule":"max"}]`, string(env.Data))
	})

	t.Run("multibyte password over 72 bytes is a field error", func(t *testing.T) {
		resp, env := s.json(fiber.MethodPost, "/api/auth/register", "", map[string]any{
			"name": "A", "email": "accent@example.com", "password": strings.Repeat("é", 40), "location": "x",
			"availability": "Flexible", "skillsOffered": []string{}, "skillsWanted": []string{},
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Password must be at most 72 bytes long", env.Message)
		assert.JSONEq(t, `[{"field":"password","rule":"max"}]`, string(env.Data))
	})

	t.Run("login sets cookie", func(t *testing.T) {
		resp, env := s.json(fiber.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
		cookie := resp.Header.Get(fiber.HeaderSetCookie)
		assert.Contains(t, cookie, "auth-token=")
		assert.Contains(t, strings.ToLower(cookie), "httponly")
	})

	t.Run("login failure is uniform", func(t *testing.T) {
		for _, body := range []map[string]string{
			{"email": "alice@example.com", "password": "wrong-password"},
			{"email": "nobody@example.com", "password": "secret123"},
		} {
			resp, env := s.json(fiber.MethodPost, "/api/auth/login", "", body)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Invalid email or password", env.Message)
		}
	})

	t.Run("me via cookie", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth-token", Value: a.Token})
		resp, env := s.do(req)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
		assert.Contains(t, string(env.Data), a.User.ID)
		assert.NotContains(t, string(env.Data), "password")
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		resp, _ := s.json(fiber.MethodPost, "/api/auth/logout", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderSetCookie), "auth-token=;")
	})

	t.Run("forgot password is generic", func(t *testing.T) {
		for _, email := range []string{"alice@example.com", "nobody@example.com"} {
			resp, env := s.json(fiber.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": email})
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, "If an account with that email exists, we have sent a password reset link.", env.Message)
		}
		resp, env := s.json(fiber.MethodPost, "/api/auth/forgot-password", "", map[string]string{})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Email is required", env.Message)
	})

	t.Run("reset with access token fails", func(t *testing.T) {
		resp, env := s.json(fiber.MethodPost, "/api/auth/reset-password", "", map[string]string{"token": a.Token, "password": "another1"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid or expired reset token", env.Message)
	})
}

func TestDirectoryAndProfile(t *testing.T) {
	s := newTestServer(t)
	a := s.register("Alice", "alice@example.com", []string{"Guitar"}, []string{"Piano"})
	s.register("Bob", "bob@example.com", []string{"Piano"}, []string{"Guitar"})
	s.register("Carol", "carol@example.com", []string{"100%_Cooking"}, []string{})

	type dirData struct {
		Users []struct {
			Name string `json:"name"`
		} `json:"users"`
		Pagination struct {
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	list := func(token, query string) dirData {
		t.Helper()
		resp, env := s.json(fiber.MethodGet, "/api/users"+query, token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
		var d dirData
		require.NoError(t, json.Unmarshal(env.Data, &d))
		return d
	}

	anon := list("", "?limit=2&page=x")
	assert.Equal(t, 3, anon.Pagination.Total)
	assert.Equal(t, 2, anon.Pagination.TotalPages)
	assert.Equal(t, 1, anon.Pagination.Page)
	require.Len(t, anon.Users, 2)
	assert.Equal(t, "Carol", anon.Users[0].Name)

	assert.Equal(t, 2, list(a.Token, "").Pagination.Total, "caller is excluded")
	assert.Equal(t, 3, list("garbage", "").Pagination.Total, "bad token means anonymous")

	literal := list("", "?search=0%25_c")
	require.Len(t, literal.Users, 1)
	assert.Equal(t, "Carol", literal.Users[0].Name)

	assert.Equal(t, 2, list("", "?search=guitar&availability=all").Pagination.Total, "offered or wanted skill matches")

	huge := list("", "?limit=9223372036854775807")
	assert.Equal(t, 1, huge.Pagination.TotalPages)
	assert.Len(t, huge.Users, 3)
	assert.Empty(t, list("", "?page=2&limit=9223372036854775807").Users)
	farPage := list("", "?page=4611686018427387905&limit=4")
	assert.Equal(t, 3, farPage.Pagination.Total)
	assert.Empty(t, farPage.Users)

	resp, env := s.json(fiber.MethodPut, "/api/profile", a.Token, map[string]any{
		"name": "Alice", "location": "Paris", "availability": "Evenings",
		"skillsOffered": []string{"Guitar"}, "skillsWanted": []string{}, "isPublic": false,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Equal(t, 2, list("", "").Pagination.Total, "private profile leaves the directory")

	resp, env = s.json(fiber.MethodPut, "/api/users/profile", a.Token, map[string]any{
		"name": "Alice", "location": "Paris", "availability": "Sometimes",
		"skillsOffered": []string{}, "skillsWanted": []string{},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `[{"field":"availability","rule":"oneof"}]`, string(env.Data))
}

func TestMultipartProfileAndUpload(t *testing.T) {
	s := newTestServer(t)
	a := s.register("Alice", "alice@example.com", []string{"Guitar"}, []string{"Piano"})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Alice B"))
	require.NoError(t, w.WriteField("location", "Rome"))
	require.NoError(t, w.WriteField("availability", "Flexible"))
	require.NoError(t, w.WriteField("skillsOffered", `["Guitar","Drums"]`))
	require.NoError(t, w.WriteField("skillsWanted", ""))
	fw, err := w.CreateFormFile("photo", "../me.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPut, "/api/auth/me", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+a.Token)
	resp, env := s.do(req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)

	var out authData
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, []string{"Guitar", "Drums"}, out.User.SkillsOffered)
	require.NotNil(t, out.User.ProfilePhoto)
	assert.True(t, strings.HasPrefix(*out.User.ProfilePhoto, "/uploads/"))
	assert.True(t, strings.HasSuffix(*out.User.ProfilePhoto, "-me.png"))

	b, err := os.ReadFile(filepath.Join(s.dir, strings.TrimPrefix(*out.User.ProfilePhoto, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "png", string(b))

	resp, _ = s.do(httptest.NewRequest(fiber.MethodGet, *out.User.ProfilePhoto, nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "uploads are served statically")

	buf.Reset()
	w = multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("other", "x"))
	require.NoError(t, w.Close())
	req = httptest.NewRequest(fiber.MethodPost, "/api/upload", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, env = s.do(req)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file provided", env.Message)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.json(fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := s.json(fiber.MethodGet, "/api/health/dependencies", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"database":"up","cache":"disabled"}`, string(env.Data))
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	addr, err = ListenAddr(":9090")
	require.NoError(t, err)
	assert.Equal(t, ":9090", addr)

	_, err = ListenAddr(" ")
	assert.Error(t, err)
}
