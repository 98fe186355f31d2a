package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bajraguru/internal/config"
	"github.com/example/bajraguru/internal/database"
	"github.com/example/bajraguru/internal/handlers"
	"github.com/example/bajraguru/internal/routes"
	"github.com/example/bajraguru/internal/utils"
)

type testEnv struct {
	app *fiber.App
	cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.sqlite"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	cfg := &config.Config{
		AppPort:       "0",
		DatabasePath:  filepath.Join(dir, "test.sqlite"),
		JWTSecret:     "test-secret",
		AdminPassword: "hunter2",
		TokenExpires:  time.Hour,
		UploadDir:     filepath.Join(dir, "uploads"),
		CORSOrigin:    "http://localhost:5173",
		MaxFileSize:   5 << 20,
		Env:           "test",
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	routes.Register(app, db, cfg)

	return &testEnv{app: app, cfg: cfg}
}

// adminToken mints a token directly so tests do not burn login rate limit.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateAdminToken(e.cfg.JWTSecret, e.cfg.TokenExpires)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, 10000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func (e *testEnv) createProduct(t *testing.T, token string, payload map[string]interface{}) map[string]interface{} {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/products", payload, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: got status %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	product, ok := body["product"].(map[string]interface{})
	if !ok {
		t.Fatalf("create product: missing product in response %v", body)
	}
	return product
}
