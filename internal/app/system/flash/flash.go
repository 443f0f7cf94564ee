// Package flash provides one-shot notifications carried in a cookie
// session between a redirect and the next page render.
//
// It also carries the short links assigned by an upload across the
// redirect to the confirmation page. Message text can embed
// user-supplied file and group names, so everything popped for display
// is run through a strict HTML sanitizer first.
package flash

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const sessionName = "shareview_flash"

// Flash keys within the session.
const (
	keySuccess = "success"
	keyError   = "error"
	keyLinks   = "links"
)

func init() {
	// Link handoffs are stored as a []string flash value.
	gob.Register([]string{})
}

// Message is one popped notification ready for display.
type Message struct {
	Kind string // "success" or "error"
	Text string // sanitized
}

// Manager reads and writes the flash session.
type Manager struct {
	store  *sessions.CookieStore
	policy *bluemonday.Policy
	logger *zap.Logger
}

// New creates a Manager signing the session cookie with the given key.
func New(key string, secure bool, logger *zap.Logger) *Manager {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		store:  store,
		policy: bluemonday.StrictPolicy(),
		logger: logger,
	}
}

// Success queues a success notification for the next page render.
func (m *Manager) Success(w http.ResponseWriter, r *http.Request, text string) {
	m.add(w, r, keySuccess, text)
}

// Error queues an error notification for the next page render.
func (m *Manager) Error(w http.ResponseWriter, r *http.Request, text string) {
	m.add(w, r, keyError, text)
}

func (m *Manager) add(w http.ResponseWriter, r *http.Request, key, text string) {
	sess, _ := m.store.Get(r, sessionName)
	sess.AddFlash(text, key)
	if err := sess.Save(r, w); err != nil {
		m.logger.Warn("flash save failed", zap.Error(err))
	}
}

// Pop returns and clears the queued notifications, sanitized for
// direct interpolation into templates.
func (m *Manager) Pop(w http.ResponseWriter, r *http.Request) []Message {
	sess, _ := m.store.Get(r, sessionName)

	var msgs []Message
	for _, v := range sess.Flashes(keySuccess) {
		if s, ok := v.(string); ok {
			msgs = append(msgs, Message{Kind: "success", Text: m.policy.Sanitize(s)})
		}
	}
	for _, v := range sess.Flashes(keyError) {
		if s, ok := v.(string); ok {
			msgs = append(msgs, Message{Kind: "error", Text: m.policy.Sanitize(s)})
		}
	}

	if err := sess.Save(r, w); err != nil {
		m.logger.Warn("flash save failed", zap.Error(err))
	}
	return msgs
}

// SetLinks queues the short links assigned by an upload for the
// confirmation page.
func (m *Manager) SetLinks(w http.ResponseWriter, r *http.Request, links []string) {
	sess, _ := m.store.Get(r, sessionName)
	sess.AddFlash(links, keyLinks)
	if err := sess.Save(r, w); err != nil {
		m.logger.Warn("flash save failed", zap.Error(err))
	}
}

// PopLinks returns and clears the queued upload links, or nil when
// there are none.
func (m *Manager) PopLinks(w http.ResponseWriter, r *http.Request) []string {
	sess, _ := m.store.Get(r, sessionName)

	var links []string
	for _, v := range sess.Flashes(keyLinks) {
		if ls, ok := v.([]string); ok {
			links = append(links, ls...)
		}
	}

	if err := sess.Save(r, w); err != nil {
		m.logger.Warn("flash save failed", zap.Error(err))
	}
	return links
}
