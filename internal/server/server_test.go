package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"typoteka/internal/config"
	"typoteka/internal/models"
	"typoteka/internal/notifications"
	"typoteka/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, evt notifications.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type testServer struct {
	srv    *Server
	app    *fiber.App
	db     *gorm.DB
	events chan notifications.Event
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	cfg := &config.Config{
		Env:            "test",
		JWTSecret:      testSecret,
		AllowedOrigins: "http://localhost:8080",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	events := make(chan notifications.Event, 16)
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		select {
		case events <- args.Get(1).(notifications.Event):
		default:
		}
	})
	srv.SetPublisher(pub)

	return &testServer{srv: srv, app: srv.NewApp(), db: db, events: events}
}

// do sends a JSON request and returns the status and raw body.
func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func (ts *testServer) createCategory(t *testing.T, name string) models.Category {
	t.Helper()
	status, raw := ts.do(t, http.MethodPost, "/api/categories", fiber.Map{"name": name})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[models.Category](t, raw)
}

func articlePayload(title string, categories ...uint) fiber.Map {
	return fiber.Map{
		"title":      title,
		"announce":   strings.Repeat("a", 120),
		"fullText":   strings.Repeat("f", 200),
		"categories": categories,
	}
}

func (ts *testServer) createArticle(t *testing.T, title string, categories ...uint) models.Article {
	t.Helper()
	status, raw := ts.do(t, http.MethodPost, "/api/articles", articlePayload(title, categories...))
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[models.Article](t, raw)
}

func (ts *testServer) createComment(t *testing.T, articleID uint, text string, headers ...string) (int, []byte) {
	t.Helper()
	return ts.do(t, http.MethodPost, "/api/articles/"+itoa(articleID)+"/comments", fiber.Map{"text": text}, headers...)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (ts *testServer) waitEvent(t *testing.T) notifications.Event {
	t.Helper()
	select {
	case evt := <-ts.events:
		return evt
	case <-time.After(3 * time.Second):
		t.Fatal("no realtime event published")
		return notifications.Event{}
	}
}
