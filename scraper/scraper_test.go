package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Go Pipelines &amp; Patterns</title>
<meta name="description" content="An article about pipelines.">
<meta name="keywords" content="go, pipelines">
<meta name="author" content="Some Author">
<script>var leak = "<p>should never appear</p>";</script>
<style>p { color: red; }</style>
</head>
<body>
<h1>Go Pipelines</h1>
<p>First paragraph about channels.</p>
<p>Second paragraph with a <a href="/more">link</a>.</p>
<img src="/img/diagram.png" alt="Pipeline diagram">
<img alt="no source">
</body>
</html>`

func testServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchExtractsMetadata(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	})

	s := New(srv.Client(), false, nil)
	page, err := s.Fetch(context.Background(), srv.URL+"/post/1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if page.Title != "Go Pipelines & Patterns" {
		t.Fatalf("unexpected title: %q", page.Title)
	}
	if page.Description != "An article about pipelines." {
		t.Fatalf("unexpected description: %q", page.Description)
	}
	if page.Keywords != "go, pipelines" {
		t.Fatalf("unexpected keywords: %q", page.Keywords)
	}
	if page.Author != "Some Author" {
		t.Fatalf("unexpected author: %q", page.Author)
	}
}

func TestFetchExtractsContent(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	})

	s := New(srv.Client(), false, nil)
	page, err := s.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if !strings.Contains(page.Content, "First paragraph about channels.") {
		t.Fatalf("paragraph text missing: %q", page.Content)
	}
	if strings.Contains(page.Content, "should never appear") {
		t.Fatal("script content leaked into text")
	}
	if strings.Contains(page.Content, "<p>") {
		t.Fatal("html tags leaked into text")
	}
}

func TestFetchExtractsImages(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	})

	s := New(srv.Client(), false, nil)
	page, err := s.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	// src 为空的 img 不收录。
	if len(page.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(page.Images))
	}
	if page.Images[0].URL != "/img/diagram.png" || page.Images[0].AltText != "Pipeline diagram" {
		t.Fatalf("unexpected image: %+v", page.Images[0])
	}
}

func TestFetchRejectsBadStatus(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	s := New(srv.Client(), false, nil)
	if _, err := s.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestFetchRejectsEmptyContent(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><script>x()</script></head><body></body></html>"))
	})

	s := New(srv.Client(), false, nil)
	if _, err := s.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for page without textual content")
	}
}
