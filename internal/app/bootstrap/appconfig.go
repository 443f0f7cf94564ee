// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, and CORS. AppConfig is where
// everything specific to ShareView lives: the backend API endpoint, the
// listing page size, and the signing keys for cookies and forms.
type AppConfig struct {
	// Backend file API configuration
	APIBaseURL string        // Base URL of the file-sharing backend (e.g., http://localhost:8081)
	APITimeout time.Duration // Per-request deadline for backend calls (default: 30s)

	// Listing configuration
	PageSize int // Number of files requested per listing page (default: 9)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Cookie signing key for the view-mode preference and flash session
	CookieKey string

	// Upload configuration
	MaxUploadSize int64 // Multipart parse limit in bytes (default: 32MB)
}
