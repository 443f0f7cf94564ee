package fileapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zap.NewNop()), srv
}

func TestList(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(ListResult{
			Files: []File{
				{ShortLink: "abc123", FileName: "report.pdf", GroupName: "docs", TimeUpdated: "2026-08-20T10:00:00Z"},
			},
			Meta: Meta{Total: 14, Page: 2, PageSize: 9},
		})
	})

	result, err := client.List(context.Background(), 2, 9)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if gotPath != "/files" {
		t.Errorf("request path = %q, want /files", gotPath)
	}
	if !strings.Contains(gotQuery, "page=2") || !strings.Contains(gotQuery, "page_size=9") {
		t.Errorf("request query = %q, want page=2 and page_size=9", gotQuery)
	}
	if len(result.Files) != 1 || result.Files[0].ShortLink != "abc123" {
		t.Errorf("unexpected files: %+v", result.Files)
	}
	if result.Meta.Total != 14 {
		t.Errorf("meta total = %d, want 14", result.Meta.Total)
	}
}

func TestList_BackendError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.List(context.Background(), 1, 9)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("List() error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", statusErr.StatusCode, http.StatusInternalServerError)
	}
}

func TestGet(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/item/abc123" {
			t.Errorf("request path = %q, want /files/item/abc123", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]File{
			"file": {ShortLink: "abc123", FileName: "report.pdf"},
		})
	})

	file, err := client.Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if file.FileName != "report.pdf" {
		t.Errorf("file name = %q, want report.pdf", file.FileName)
	}
}

func TestGet_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestGet_NullFileIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"file": null}`))
	})

	_, err := client.Get(context.Background(), "abc123")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestUploadOne(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/upload" {
			t.Errorf("request path = %q, want /files/upload", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		headers := r.MultipartForm.File["file"]
		if len(headers) != 1 {
			t.Fatalf("got %d parts in field %q, want 1", len(headers), "file")
		}
		if headers[0].Filename != "notes.txt" {
			t.Errorf("filename = %q, want notes.txt", headers[0].Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "xyz789"})
	})

	link, err := client.UploadOne(context.Background(), "notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("UploadOne() error = %v", err)
	}
	if link != "xyz789" {
		t.Errorf("short link = %q, want xyz789", link)
	}
}

func TestUploadMany(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/vacation" {
			t.Errorf("request path = %q, want /files/vacation", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		headers := r.MultipartForm.File["files"]
		if len(headers) != 2 {
			t.Fatalf("got %d parts in field %q, want 2", len(headers), "files")
		}
		json.NewEncoder(w).Encode(map[string][]string{"urls": {"aaa111", "bbb222"}})
	})

	links, err := client.UploadMany(context.Background(), []Upload{
		{FileName: "a.jpg", Body: strings.NewReader("a")},
		{FileName: "b.jpg", Body: strings.NewReader("b")},
	}, "vacation")
	if err != nil {
		t.Fatalf("UploadMany() error = %v", err)
	}
	if len(links) != 2 {
		t.Errorf("got %d links, want 2", len(links))
	}
}

func TestUploadMany_EmptyInput(t *testing.T) {
	client := New("http://localhost:1", time.Second, zap.NewNop())
	if _, err := client.UploadMany(context.Background(), nil, "g"); err == nil {
		t.Error("UploadMany() with no files should error without a request")
	}
}

func TestUploadMany_EscapesGroupName(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(map[string][]string{"urls": {"x"}})
	})

	_, err := client.UploadMany(context.Background(), []Upload{
		{FileName: "a.txt", Body: strings.NewReader("a")},
	}, "summer trip/2026")
	if err != nil {
		t.Fatalf("UploadMany() error = %v", err)
	}
	if gotPath != "/files/summer%20trip%2F2026" {
		t.Errorf("request path = %q, want escaped group name", gotPath)
	}
}

func TestDelete(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.Delete(context.Background(), "abc123"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
	if gotPath != "/files/item/abc123" {
		t.Errorf("path = %q, want /files/item/abc123", gotPath)
	}
}

func TestDelete_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	err := client.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestDownloadURLs(t *testing.T) {
	client := New("http://backend:8081/", time.Second, zap.NewNop())

	if got := client.DownloadURL("abc 123"); got != "http://backend:8081/files/download/abc%20123" {
		t.Errorf("DownloadURL() = %q", got)
	}
	if got := client.GroupDownloadURL("my group"); got != "http://backend:8081/files/download/group/my%20group" {
		t.Errorf("GroupDownloadURL() = %q", got)
	}
}

func TestMetaTotalPages(t *testing.T) {
	tests := []struct {
		name string
		meta Meta
		want int
	}{
		{"empty", Meta{Total: 0, PageSize: 9}, 0},
		{"one partial page", Meta{Total: 5, PageSize: 9}, 1},
		{"exact boundary", Meta{Total: 18, PageSize: 9}, 2},
		{"one over boundary", Meta{Total: 19, PageSize: 9}, 3},
		{"zero page size", Meta{Total: 10, PageSize: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.TotalPages(); got != tt.want {
				t.Errorf("TotalPages() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFileUpdatedAt(t *testing.T) {
	f := File{TimeUpdated: "2026-08-20T10:30:00Z"}
	got := f.UpdatedAt()
	if got.IsZero() {
		t.Fatal("UpdatedAt() returned zero time for a valid timestamp")
	}
	if got.Hour() != 10 || got.Minute() != 30 {
		t.Errorf("UpdatedAt() = %v", got)
	}

	bad := File{TimeUpdated: "yesterday"}
	if !bad.UpdatedAt().IsZero() {
		t.Error("UpdatedAt() should return zero time for an unparsable timestamp")
	}
}
