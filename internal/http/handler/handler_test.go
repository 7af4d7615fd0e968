package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"github.com/sifan077/FoodGram/internal/app/service"
	"go.uber.org/zap"
)

var zapNop = zap.NewNop()

type fakeShortLinks struct {
	resolve func(ctx context.Context, token string, visitor service.Visitor) (string, error)
}

func (f *fakeShortLinks) GetOrCreate(ctx context.Context, recipeID uint) (*model.ShortLink, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeShortLinks) Resolve(ctx context.Context, token string, visitor service.Visitor) (string, error) {
	return f.resolve(ctx, token, visitor)
}

func (f *fakeShortLinks) ShortURL(link *model.ShortLink) string {
	return "http://example.com/s/" + link.Token + "/"
}

func (f *fakeShortLinks) Visits(ctx context.Context, actorID, recipeID uint) (int64, error) {
	return 0, nil
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestResolveRedirects(t *testing.T) {
	var gotToken string
	var gotVisitor service.Visitor
	app := fiber.New()
	NewRedirectHandler(RedirectDeps{ShortLinks: &fakeShortLinks{
		resolve: func(ctx context.Context, token string, visitor service.Visitor) (string, error) {
			gotToken, gotVisitor = token, visitor
			return "http://example.com/recipes/7", nil
		},
	}}).Register(app)

	req := httptest.NewRequest(http.MethodGet, "/s/Ab3x/", nil)
	req.Header.Set("User-Agent", "test-agent")
	resp, _ := send(t, app, req)

	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "http://example.com/recipes/7" {
		t.Fatalf("unexpected location %q", loc)
	}
	if gotToken != "Ab3x" {
		t.Fatalf("expected token Ab3x, got %q", gotToken)
	}
	if gotVisitor.UserAgent != "test-agent" {
		t.Fatalf("expected user agent to be forwarded, got %q", gotVisitor.UserAgent)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	app := fiber.New()
	NewRedirectHandler(RedirectDeps{ShortLinks: &fakeShortLinks{
		resolve: func(ctx context.Context, token string, visitor service.Visitor) (string, error) {
			return "", fmt.Errorf("resolve short link: %w", repository.ErrShortLinkNotFound)
		},
	}}).Register(app)

	resp, body := send(t, app, httptest.NewRequest(http.MethodGet, "/s/none", nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if body != "Link not found" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestResolveStoreFailure(t *testing.T) {
	app := fiber.New()
	NewRedirectHandler(RedirectDeps{ShortLinks: &fakeShortLinks{
		resolve: func(ctx context.Context, token string, visitor service.Visitor) (string, error) {
			return "", errors.New("connection reset")
		},
	}}).Register(app)

	resp, _ := send(t, app, httptest.NewRequest(http.MethodGet, "/s/Ab3x", nil))
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", fmt.Errorf("load: %w", repository.ErrRecipeNotFound), fiber.StatusNotFound, "recipe not found"},
		{"forbidden", service.ErrForbidden, fiber.StatusForbidden, service.ErrForbidden.Error()},
		{"conflict", service.ErrAlreadyInList, fiber.StatusBadRequest, service.ErrAlreadyInList.Error()},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, "failed to do it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return writeError(c, zapNop, tt.err, "failed to do it")
			})

			resp, raw := send(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			var body map[string]string
			if err := json.Unmarshal([]byte(raw), &body); err != nil {
				t.Fatalf("decode body %q: %v", raw, err)
			}
			if body["error"] != tt.body {
				t.Fatalf("expected error %q, got %q", tt.body, body["error"])
			}
		})
	}
}

func TestBindJSONReportsFields(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var req RecipeRequest
		if err := bindJSON(c, &req); err != nil {
			return writeError(c, zapNop, err, "failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"malformed", `{"name":`, []string{"body"}},
		{"missing lists", `{"name":"Soup"}`, []string{"ingredients", "tags"}},
		{"bad amount", `{"ingredients":[{"id":1,"amount":0}],"tags":[1]}`, []string{"ingredients[0].amount"}},
		{"long name", `{"ingredients":[{"id":1,"amount":1}],"tags":[1],"name":"` + strings.Repeat("x", 257) + `"}`, []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, raw := send(t, app, req)
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.StatusCode, raw)
			}

			var body struct {
				Fields map[string]string `json:"fields"`
			}
			if err := json.Unmarshal([]byte(raw), &body); err != nil {
				t.Fatalf("decode body %q: %v", raw, err)
			}
			if len(body.Fields) != len(tt.fields) {
				t.Fatalf("expected fields %v, got %v", tt.fields, body.Fields)
			}
			for _, f := range tt.fields {
				if _, ok := body.Fields[f]; !ok {
					t.Fatalf("expected field %q in %v", f, body.Fields)
				}
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"ingredients":[{"id":1,"amount":2}],"tags":[1]}`))
	req.Header.Set("Content-Type", "application/json")
	if resp, raw := send(t, app, req); resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, raw)
	}
}

func TestPathID(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		return c.SendString(fmt.Sprint(id))
	})

	for path, want := range map[string]int{"/12": fiber.StatusOK, "/0": fiber.StatusNotFound, "/abc": fiber.StatusNotFound, "/-3": fiber.StatusNotFound} {
		resp, _ := send(t, app, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.StatusCode != want {
			t.Fatalf("%s: expected %d, got %d", path, want, resp.StatusCode)
		}
	}
}

func TestReady(t *testing.T) {
	healthy := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("dial tcp: refused") }

	app := fiber.New()
	NewRedirectHandler(RedirectDeps{Checks: map[string]ReadinessCheck{"postgres": healthy}}).Register(app)
	if resp, body := send(t, app, httptest.NewRequest(http.MethodGet, "/ready", nil)); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	app = fiber.New()
	NewRedirectHandler(RedirectDeps{Checks: map[string]ReadinessCheck{"postgres": healthy, "redis": down}}).Register(app)
	resp, raw := send(t, app, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	var body struct {
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	if _, ok := body.Checks["redis"]; !ok || len(body.Checks) != 1 {
		t.Fatalf("expected only redis to fail, got %v", body.Checks)
	}
}
