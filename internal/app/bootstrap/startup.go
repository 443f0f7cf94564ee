// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/shareview/internal/app/resources"
	"github.com/dalemusser/shareview/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after backend clients are built, but before the
// HTTP handler is built and requests are served.
//
// Returning a non-nil error will abort startup and prevent the server
// from starting. The backend probe below deliberately does not: the UI
// must come up even when the backend is down, so an unreachable API is
// logged and the listing page's error panel takes it from there.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied", zap.Int("count", n))
	}

	probeCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Ping(), logger, "startup probe")
	defer cancel()

	if _, err := deps.API.List(probeCtx, 1, 1); err != nil {
		logger.Warn("file API not reachable at startup",
			zap.String("base_url", deps.API.BaseURL()),
			zap.Error(err),
		)
	} else {
		logger.Info("file API reachable", zap.String("base_url", deps.API.BaseURL()))
	}

	return nil
}
