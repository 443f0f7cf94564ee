// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/shareview/internal/app/system/flash"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is the display name used in the layout and page titles.
const SiteName = "ShareView"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type browseVM struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	vm := browseVM{
//	    BaseVM: viewdata.NewBaseVM(r, "Files", "/files"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Security
	CSRFToken string // CSRF token for forms (use in hidden input field)

	// One-shot notifications popped from the flash session.
	// Handlers that want them call vm.Flashes = flashes.Pop(w, r).
	Flashes []flash.Message
}

// New creates a BaseVM with site and request context but no title.
// Used by error pages; feature handlers should prefer NewBaseVM.
func New(r *http.Request) BaseVM {
	return BaseVM{
		SiteName:    SiteName,
		BackURL:     httpnav.ResolveBackURL(r, "/files"),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := New(r)
	vm.Title = title
	vm.BackURL = httpnav.ResolveBackURL(r, backDefault)
	return vm
}
