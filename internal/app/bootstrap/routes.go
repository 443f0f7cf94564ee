// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	detailfeature "github.com/dalemusser/shareview/internal/app/features/detail"
	errorsfeature "github.com/dalemusser/shareview/internal/app/features/errors"
	filesfeature "github.com/dalemusser/shareview/internal/app/features/files"
	healthfeature "github.com/dalemusser/shareview/internal/app/features/health"
	uploadfeature "github.com/dalemusser/shareview/internal/app/features/upload"
	appresources "github.com/dalemusser/shareview/internal/app/resources"
	"github.com/dalemusser/shareview/internal/app/system/flash"
	"github.com/dalemusser/shareview/internal/app/system/viewmode"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration and the Startup hook have
// completed. It creates the chi router, installs the global middleware
// stack, and mounts the feature routers:
//
//	/files            browse listing (grid/list, sort, pagination)
//	/files/{link}     file detail, delete
//	/upload           upload form + confirmation
//	/api/files/{link} JSON delete endpoint for in-page row removal
//	/health           liveness + backend readiness
//
// Web routes get CSRF protection; /api/* routes are exempted because
// they are called by same-origin page scripts with fetch.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Signed view-mode preference cookie and flash session store.
	viewModes := viewmode.New(appCfg.CookieKey, secure)
	flashes := flash.New(appCfg.CookieKey, secure, logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	// The budget covers the backend API timeout plus rendering.
	r.Use(chimw.Timeout(appCfg.APITimeout + 10*time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// CSRF protection middleware with path-based exemption for API routes.
	// Cookie name is "shareview_csrf" to avoid collisions with other
	// services on the same domain.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("shareview_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	// Wrap CSRF middleware to skip for API routes. They carry no form
	// token; same-origin policy plus SameSite cookies cover them.
	csrfMiddleware := func(next http.Handler) http.Handler {
		csrfHandler := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if strings.HasPrefix(req.URL.Path, "/api/") {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
	r.Use(csrfMiddleware)

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.API, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Static assets with pre-compressed file support (gzip/brotli)
	// /static/* serves files from disk (static directory)
	r.Handle("/static/*", fileserver.Handler("/static", "static"))

	// /assets/* serves embedded assets (bundled into the binary)
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// File browsing (listing + detail share the /files route tree)
	filesHandler := filesfeature.NewHandler(deps.API, viewModes, flashes, errLog, appCfg.PageSize, logger)
	detailHandler := detailfeature.NewHandler(deps.API, flashes, errLog, logger)
	r.Route("/files", func(sr chi.Router) {
		filesHandler.MountRoutes(sr)
		detailHandler.MountRoutes(sr)
	})

	// JSON delete endpoint used by the listing page scripts
	r.Mount("/api/files", filesfeature.APIRoutes(filesHandler))

	// Upload form and confirmation
	uploadHandler := uploadfeature.NewHandler(deps.API, flashes, errLog, appCfg.MaxUploadSize, logger)
	r.Mount("/upload", uploadfeature.Routes(uploadHandler))

	// The listing is the home page
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/files", http.StatusSeeOther)
	})

	// 404 catch-all for unmatched routes
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
