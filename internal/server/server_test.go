package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shukurulla/stream-service/internal/config"
	"github.com/Shukurulla/stream-service/internal/database"
	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/video"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubProvider implements video.Provider without network access.
type stubProvider struct {
	createCalls int
}

func (p *stubProvider) CreateLiveStream(_ context.Context, name string) (*video.LiveStream, error) {
	p.createCalls++
	ls := &video.LiveStream{
		LiveStreamID: fmt.Sprintf("li-stub-%d", p.createCalls),
		Name:         name,
		StreamKey:    "sk-stub",
	}
	ls.Raw, _ = json.Marshal(ls)
	return ls, nil
}

func (p *stubProvider) GetLiveStream(_ context.Context, liveStreamID string) (*video.LiveStream, error) {
	return &video.LiveStream{LiveStreamID: liveStreamID}, nil
}

func (p *stubProvider) GetSavedVideo(_ context.Context, liveStreamID string) (*video.SavedVideo, error) {
	return &video.SavedVideo{VideoID: "vi-stub", Title: "Recording"}, nil
}

func (p *stubProvider) Token(_ context.Context) (string, error) {
	return "stub-token", nil
}

// newTestServer builds a Server on an in-memory database with the full route
// table mounted.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:     "test-secret-key-0123456789abcdef",
		Port:          "0",
		Env:           "test",
		UploadDir:     t.TempDir(),
		PublicBaseURL: "http://localhost:5008",
	}

	srv, err := NewServerWithDeps(cfg, db, nil, &stubProvider{})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	srv.SetupRoutes(app)
	return srv, app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers ...map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, path string) (*http.Response, []any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var list []any
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &list), "body: %s", raw)
	}
	return resp, list
}

// registerTeacher creates a teacher through the API and returns its token and
// decoded record.
func registerTeacher(t *testing.T, app *fiber.App, name string) (string, map[string]any) {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/create-teacher", map[string]string{
		"name":     name,
		"password": "password123",
		"science":  "Listening",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register teacher %s: %v", name, body)
	token, _ := body["token"].(string)
	teacher, _ := body["teacher"].(map[string]any)
	require.NotEmpty(t, token)
	return token, teacher
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
