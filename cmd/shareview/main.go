// Command shareview runs the ShareView web front-end.
//
// ShareView is a server-rendered browser UI for a file-sharing service:
// upload files (optionally grouped), browse them in a paginated grid or
// list, view details, download, and delete. All storage and short-link
// generation live in the remote backend API; this process only renders
// pages and forwards requests to it.
package main

import (
	"context"

	"github.com/dalemusser/shareview/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	app.Run(context.Background(), bootstrap.Hooks)
}
