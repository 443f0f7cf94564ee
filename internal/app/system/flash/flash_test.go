package flash

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const testKey = "test-flash-key-0123456789abcdef0"

func newTestManager() *Manager {
	return New(testKey, false, zap.NewNop())
}

// carry transfers Set-Cookie headers from a response onto a fresh
// request, like a browser following the redirect.
func carry(rec *httptest.ResponseRecorder, target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSuccessAndErrorPopOnce(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	m.Success(rec, req, "Uploaded report.pdf")
	m.Error(rec, req, "Could not delete notes.txt")

	next := carry(rec, "/files")
	rec2 := httptest.NewRecorder()
	msgs := m.Pop(rec2, next)

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Kind != "success" || msgs[0].Text != "Uploaded report.pdf" {
		t.Errorf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Kind != "error" || msgs[1].Text != "Could not delete notes.txt" {
		t.Errorf("unexpected second message: %+v", msgs[1])
	}

	// Popping consumed the flashes; the next request sees nothing.
	again := carry(rec2, "/files")
	if msgs := m.Pop(httptest.NewRecorder(), again); len(msgs) != 0 {
		t.Errorf("second pop returned %d messages, want 0", len(msgs))
	}
}

func TestPopSanitizesText(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	m.Success(rec, req, `Uploaded <script>alert("x")</script>notes.txt`)

	msgs := m.Pop(httptest.NewRecorder(), carry(rec, "/files"))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if strings.Contains(msgs[0].Text, "<script>") {
		t.Errorf("script tag survived sanitization: %q", msgs[0].Text)
	}
	if !strings.Contains(msgs[0].Text, "notes.txt") {
		t.Errorf("plain text lost in sanitization: %q", msgs[0].Text)
	}
}

func TestLinksHandoff(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	m.SetLinks(rec, req, []string{"abc123", "def456"})

	next := carry(rec, "/upload/done")
	rec2 := httptest.NewRecorder()
	links := m.PopLinks(rec2, next)

	if len(links) != 2 || links[0] != "abc123" || links[1] != "def456" {
		t.Fatalf("got links %v, want [abc123 def456]", links)
	}

	again := carry(rec2, "/upload/done")
	if links := m.PopLinks(httptest.NewRecorder(), again); len(links) != 0 {
		t.Errorf("second pop returned %v, want none", links)
	}
}

func TestPopLinksEmpty(t *testing.T) {
	m := newTestManager()
	req := httptest.NewRequest(http.MethodGet, "/upload/done", nil)
	if links := m.PopLinks(httptest.NewRecorder(), req); links != nil {
		t.Errorf("got %v, want nil", links)
	}
}
