// internal/frames/fetch_test.go
package frames

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "Go-http-client/1.1" {
			t.Error("expected a browser-like user agent")
		}
		w.Write([]byte("fake video bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "source.mp4")
	f := NewHTTPFetcher(5 * time.Second)
	if err := f.Download(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fake video bytes" {
		t.Errorf("unexpected file content: %q", data)
	}
}

func TestDownloadNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "source.mp4")
	f := NewHTTPFetcher(5 * time.Second)
	if err := f.Download(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("expected error for 404")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file should remain after a failed download")
	}
}

func TestDownloadEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with zero bytes
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "source.mp4")
	f := NewHTTPFetcher(5 * time.Second)
	if err := f.Download(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("expected error for empty body")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file should remain after an empty download")
	}
}

func TestDownloadUnreachable(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "source.mp4")
	f := NewHTTPFetcher(2 * time.Second)
	if err := f.Download(context.Background(), "http://127.0.0.1:1/video.mp4", dest); err == nil {
		t.Fatal("expected error for unreachable host")
	}
}
