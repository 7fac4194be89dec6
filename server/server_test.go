package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"auto_blog_article_optimizer/config"
	"auto_blog_article_optimizer/generator"
	"auto_blog_article_optimizer/optimizer"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Optimizer.MaxIterations = 1
	cfg.Quality.Threshold = 0
	cfg.SEO.Threshold = 0

	model, err := generator.New(&config.LLMConfig{Provider: "mock"}, false, nil)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	srv, err := New(optimizer.New(model, cfg, false, nil), nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestSessionCreateAndGet(t *testing.T) {
	ts := testServer(t)

	body := `{"text": "# Draft\n\nA body paragraph with enough words to evaluate.", "keywords": ["go"]}`
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var created sessionResp
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.SessionID == "" {
		t.Fatal("missing session id")
	}
	if !created.Result.Accepted {
		t.Fatal("zero thresholds should accept the draft")
	}

	got, err := http.Get(ts.URL + "/api/sessions/" + created.SessionID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer got.Body.Close()
	if got.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on lookup, got %d", got.StatusCode)
	}

	var fetched sessionResp
	if err := json.NewDecoder(got.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode lookup: %v", err)
	}
	if fetched.Result.Draft.Text != created.Result.Draft.Text {
		t.Fatal("stored session differs from created one")
	}
}

func TestSessionCreateRejectsEmptyText(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(`{"text": "  "}`))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSessionCreateRejectsWrongMethod(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestSessionLookupUnknownID(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/sessions/nope")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestNewRequiresOptimizer(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatal("expected error for nil optimizer")
	}
}
