package testutil

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/dalemusser/shareview/internal/fileapi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FakeBackend is an in-memory stand-in for the file-sharing backend
// API, served over httptest. It implements the endpoints the fileapi
// client calls and counts requests per operation so tests can assert
// how handlers talked to it.
type FakeBackend struct {
	Server *httptest.Server

	mu            sync.Mutex
	files         []fileapi.File
	counts        map[string]int
	lastGroupName string
}

// NewFakeBackend starts a fake backend seeded with the given files.
// Callers must Close it.
func NewFakeBackend(seed ...fileapi.File) *FakeBackend {
	fb := &FakeBackend{
		files:  append([]fileapi.File(nil), seed...),
		counts: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Get("/files", fb.list)
	r.Post("/files/upload", fb.uploadOne)
	r.Get("/files/item/{shortLink}", fb.get)
	r.Delete("/files/item/{shortLink}", fb.delete)
	r.Get("/files/download/{shortLink}", fb.download)
	r.Post("/files/{groupName}", fb.uploadMany)

	fb.Server = httptest.NewServer(r)
	return fb
}

// Close shuts the backend down.
func (fb *FakeBackend) Close() {
	fb.Server.Close()
}

// URL returns the backend base URL.
func (fb *FakeBackend) URL() string {
	return fb.Server.URL
}

// NewClient returns a fileapi client pointed at this backend.
func (fb *FakeBackend) NewClient() *fileapi.Client {
	return fileapi.New(fb.Server.URL, 5*time.Second, zap.NewNop())
}

// Count returns how many requests hit the named operation: "list",
// "get", "upload_one", "upload_many", "delete", or "download".
func (fb *FakeBackend) Count(op string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.counts[op]
}

// Files returns a snapshot of the stored files.
func (fb *FakeBackend) Files() []fileapi.File {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]fileapi.File(nil), fb.files...)
}

// LastGroupName returns the group name of the most recent multi-file
// upload.
func (fb *FakeBackend) LastGroupName() string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.lastGroupName
}

// SeedFile builds a file record for seeding, with a generated short
// link and the given age.
func SeedFile(fileName, groupName string, age time.Duration) fileapi.File {
	return fileapi.File{
		ShortLink:   uuid.NewString()[:8],
		FileName:    fileName,
		GroupName:   groupName,
		TimeUpdated: time.Now().Add(-age).UTC().Format(time.RFC3339),
	}
}

func (fb *FakeBackend) list(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.counts["list"]++

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 {
		pageSize = 10
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(fb.files) {
		start = len(fb.files)
	}
	if end > len(fb.files) {
		end = len(fb.files)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"files": fb.files[start:end],
		"meta": map[string]int{
			"total":     len(fb.files),
			"page":      page,
			"page_size": pageSize,
		},
	})
}

func (fb *FakeBackend) get(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.counts["get"]++

	shortLink := pathParam(r, "shortLink")
	for _, f := range fb.files {
		if f.ShortLink == shortLink {
			writeJSON(w, http.StatusOK, map[string]any{"file": f})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (fb *FakeBackend) delete(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.counts["delete"]++

	shortLink := pathParam(r, "shortLink")
	for i, f := range fb.files {
		if f.ShortLink == shortLink {
			fb.files = append(fb.files[:i], fb.files[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (fb *FakeBackend) uploadOne(w http.ResponseWriter, r *http.Request) {
	_, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file"})
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.counts["upload_one"]++

	f := fb.store(header, "")
	writeJSON(w, http.StatusOK, map[string]string{"url": f.ShortLink})
}

func (fb *FakeBackend) uploadMany(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad multipart body"})
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing files"})
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.counts["upload_many"]++
	fb.lastGroupName = pathParam(r, "groupName")

	links := make([]string, 0, len(headers))
	for _, h := range headers {
		f := fb.store(h, fb.lastGroupName)
		links = append(links, f.ShortLink)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"urls": links})
}

func (fb *FakeBackend) download(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.counts["download"]++
	w.Write([]byte("file-bytes"))
}

// store appends a new record; callers hold the lock.
func (fb *FakeBackend) store(header *multipart.FileHeader, groupName string) fileapi.File {
	f := fileapi.File{
		ShortLink:   uuid.NewString()[:8],
		FileName:    header.Filename,
		GroupName:   groupName,
		TimeUpdated: time.Now().UTC().Format(time.RFC3339),
	}
	fb.files = append(fb.files, f)
	return f
}

// pathParam returns a decoded route parameter; chi hands back the raw
// escaped segment when the request path carried one.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
