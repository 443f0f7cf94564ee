// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires this app into the WAFFLE lifecycle.
// Each function is called in order by app.Run, from configuration
// loading through backend setup, one-time startup work, HTTP handler
// construction, and finally graceful shutdown.
//
// ShareView has no database, so there is no EnsureSchema hook.
var Hooks = app.Hooks[AppConfig, Deps]{
	Name:           "shareview",    // used only for logging/diagnostics
	LoadConfig:     LoadConfig,     // load core + app config
	ValidateConfig: ValidateConfig, // validate API base URL and other settings
	ConnectDB:      Connect,        // build the file API client
	Startup:        Startup,        // load shared templates, probe the backend
	BuildHandler:   BuildHandler,   // build the HTTP router + middleware stack
	Shutdown:       Shutdown,       // close idle backend connections
}
