// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/shareview/internal/fileapi"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Connect builds the backend clients for this app.
//
// WAFFLE calls this after configuration is loaded but before Startup.
// ShareView has no database; its one backend is the file-sharing API,
// reached over plain HTTP. Building the client cannot fail, and no
// connection is opened here: the backend being down at boot must not
// keep the UI from starting, since every page already renders a
// retryable error state when a call fails.
func Connect(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	api := fileapi.New(appCfg.APIBaseURL, appCfg.APITimeout, logger)

	logger.Info("configured file API client",
		zap.String("base_url", appCfg.APIBaseURL),
		zap.Duration("timeout", appCfg.APITimeout),
	)

	return Deps{API: api}, nil
}
