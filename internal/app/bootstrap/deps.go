// internal/app/bootstrap/deps.go
package bootstrap

import (
	"github.com/dalemusser/shareview/internal/fileapi"
)

// Deps holds backend dependencies for this WAFFLE app.
//
// This struct is created in Connect and passed to subsequent lifecycle
// hooks: Startup, BuildHandler, and Shutdown. ShareView has no database
// of its own; its only backend is the file-sharing API client.
type Deps struct {
	// API is the client for the file-sharing backend.
	API *fileapi.Client
}
