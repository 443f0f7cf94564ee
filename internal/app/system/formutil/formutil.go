// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails, the form should be re-rendered with the
// user's previously entered values echoed back and an error message
// explaining what went wrong. This package provides a Base struct that
// can be embedded in form view models to carry the common fields.
//
// Example usage:
//
//	type uploadFormData struct {
//		formutil.Base
//		GroupName string
//	}
//
//	// In your handler:
//	data := uploadFormData{
//		Base:      formutil.NewBase(r, "Upload Files", "/files"),
//		GroupName: groupName,
//	}
//	data.SetError("Choose at least one file to upload.")
//	templates.Render(w, r, "upload/form", data)
package formutil

import (
	"net/http"

	"github.com/dalemusser/shareview/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in
// form view models. It embeds viewdata.BaseVM for page context and adds
// Error for validation feedback.
type Base struct {
	viewdata.BaseVM
	Error string
}

// NewBase creates a fully populated Base for a form page.
// This is the preferred way to create a Base for embedding in form view models.
func NewBase(r *http.Request, title, backDefault string) Base {
	return Base{
		BaseVM: viewdata.NewBaseVM(r, title, backDefault),
	}
}

// SetError sets the error message on a Base struct.
func (b *Base) SetError(msg string) {
	b.Error = msg
}
