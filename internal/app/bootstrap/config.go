// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
// Change this constant when forking shareview for a new project.
const EnvVarPrefix = "SHAREVIEW"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, page_size, etc.
//   - Environment variables: SHAREVIEW_API_BASE_URL, SHAREVIEW_PAGE_SIZE, etc.
//   - Command-line flags: --api_base_url, --page_size, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://localhost:8081", Desc: "Base URL of the file-sharing backend API"},
	{Name: "api_timeout", Default: "30s", Desc: "Per-request deadline for backend API calls"},

	{Name: "page_size", Default: 9, Desc: "Number of files per listing page"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},
	{Name: "cookie_key", Default: "dev-only-cookie-key-please-change-01234567", Desc: "Signing key for preference and flash cookies"},

	{Name: "max_upload_size", Default: 32 << 20, Desc: "Multipart upload parse limit in bytes"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL: appValues.String("api_base_url"),
		APITimeout: appValues.Duration("api_timeout", 30*time.Second),

		PageSize: appValues.Int("page_size"),

		CSRFKey:   appValues.String("csrf_key"),
		CookieKey: appValues.String("cookie_key"),

		MaxUploadSize: int64(appValues.Int("max_upload_size")),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		logger.Error("invalid API base URL", zap.String("api_base_url", appCfg.APIBaseURL))
		return fmt.Errorf("invalid API base URL: %q", appCfg.APIBaseURL)
	}

	if appCfg.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", appCfg.PageSize)
	}

	if appCfg.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be positive, got %s", appCfg.APITimeout)
	}

	return nil
}
