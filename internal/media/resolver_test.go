// internal/media/resolver_test.go
package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCaptionPrefersExisting(t *testing.T) {
	r := NewResolver()
	got := r.Caption(context.Background(), "already here", "https://unreachable.invalid")
	if got != "already here" {
		t.Errorf("expected existing caption, got %q", got)
	}
}

func TestCaptionNoPermalink(t *testing.T) {
	r := NewResolver()
	if got := r.Caption(context.Background(), "", ""); got != "" {
		t.Errorf("expected empty caption, got %q", got)
	}
}

func TestCaptionRecoveredFromPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a user agent header")
		}
		w.Write([]byte("<html><body><h1>epic goal clip</h1><p>more text</p></body></html>"))
	}))
	defer srv.Close()

	r := NewResolver()
	got := r.Caption(context.Background(), "", srv.URL)
	if got != "epic goal clip" {
		t.Errorf("expected recovered caption, got %q", got)
	}
}

func TestCaptionTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("日本語の長い字幕", 60)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>" + long + "</p></body></html>"))
	}))
	defer srv.Close()

	r := NewResolver()
	got := r.Caption(context.Background(), "", srv.URL)
	if !utf8.ValidString(got) {
		t.Fatalf("caption is not valid UTF-8: %q", got)
	}
	if n := len([]rune(got)); n != maxCaptionChars {
		t.Errorf("caption length = %d runes, want %d", n, maxCaptionChars)
	}
}

func TestCaptionPageFetchFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r := NewResolver()
	if got := r.Caption(context.Background(), "", srv.URL); got != "" {
		t.Errorf("expected empty caption on fetch failure, got %q", got)
	}
}
