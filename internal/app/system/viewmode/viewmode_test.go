package viewmode

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const testKey = "test-cookie-key-0123456789abcdef"

// roundTrip writes mode with one Store and reads it back with another,
// carrying the Set-Cookie header over like a browser would.
func roundTrip(t *testing.T, writeKey, readKey, mode string) string {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := New(writeKey, false).Set(rec, mode); err != nil {
		t.Fatalf("Set(%q): %v", mode, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return New(readKey, false).Get(req)
}

func TestSetGetRoundTrip(t *testing.T) {
	if got := roundTrip(t, testKey, testKey, List); got != List {
		t.Errorf("got %q, want %q", got, List)
	}
	if got := roundTrip(t, testKey, testKey, Grid); got != Grid {
		t.Errorf("got %q, want %q", got, Grid)
	}
}

func TestGetDefaultsToGrid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	if got := New(testKey, false).Get(req); got != Grid {
		t.Errorf("no cookie: got %q, want %q", got, Grid)
	}
}

func TestGetRejectsTamperedCookie(t *testing.T) {
	// Signed with a different key; must fall back to the default.
	if got := roundTrip(t, "some-other-key-0123456789abcdef0", testKey, List); got != Grid {
		t.Errorf("tampered cookie: got %q, want %q", got, Grid)
	}

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.AddCookie(&http.Cookie{Name: "shareview_view", Value: "not-signed-at-all"})
	if got := New(testKey, false).Get(req); got != Grid {
		t.Errorf("garbage cookie: got %q, want %q", got, Grid)
	}
}

func TestSetRejectsUnknownMode(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := New(testKey, false).Set(rec, "carousel"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be written for an unknown mode")
	}
}
