// Package viewmode persists the grid/list listing preference in a
// signed cookie.
//
// The preference is cosmetic, but the cookie is signed anyway so a
// tampered value degrades to the default instead of reaching the
// templates.
package viewmode

import (
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
)

// Listing display modes.
const (
	Grid = "grid"
	List = "list"
)

const cookieName = "shareview_view"

// A year, in seconds. The preference should survive browser restarts.
const cookieMaxAge = 365 * 24 * 60 * 60

// Store reads and writes the signed view-mode cookie.
type Store struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// New creates a Store signing with the given key.
func New(key string, secure bool) *Store {
	return &Store{
		sc:     securecookie.New([]byte(key), nil),
		secure: secure,
	}
}

// Get returns the saved mode for the request. Missing, invalid, or
// tampered cookies all fall back to Grid.
func (s *Store) Get(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return Grid
	}

	var mode string
	if err := s.sc.Decode(cookieName, c.Value, &mode); err != nil {
		return Grid
	}
	if mode != List {
		return Grid
	}
	return List
}

// Set writes the mode cookie. Unknown modes are rejected.
func (s *Store) Set(w http.ResponseWriter, mode string) error {
	if mode != Grid && mode != List {
		return fmt.Errorf("viewmode: unknown mode %q", mode)
	}

	encoded, err := s.sc.Encode(cookieName, mode)
	if err != nil {
		return fmt.Errorf("viewmode: encode cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
