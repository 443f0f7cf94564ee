// Package detail provides the single-file page: metadata, copy-link,
// download, and delete.
package detail

import (
	"errors"
	"net/http"
	"net/url"

	errorsfeature "github.com/dalemusser/shareview/internal/app/features/errors"
	"github.com/dalemusser/shareview/internal/app/system/fileicon"
	"github.com/dalemusser/shareview/internal/app/system/flash"
	"github.com/dalemusser/shareview/internal/app/system/viewdata"
	"github.com/dalemusser/shareview/internal/fileapi"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides the file detail handlers.
type Handler struct {
	api     *fileapi.Client
	flashes *flash.Manager
	errLog  *errorsfeature.ErrorLogger
	logger  *zap.Logger
}

// NewHandler creates a new detail Handler.
func NewHandler(
	api *fileapi.Client,
	flashes *flash.Manager,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		api:     api,
		flashes: flashes,
		errLog:  errLog,
		logger:  logger,
	}
}

// MountRoutes mounts the detail routes on the /files router, next to
// the browse routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{shortLink}", h.show)
	r.Post("/{shortLink}/delete", h.delete)
}

// DetailVM is the view model for the detail page.
type DetailVM struct {
	viewdata.BaseVM
	FileName         string
	ShortLink        string
	GroupName        string
	Ungrouped        bool
	Uploaded         string // absolute date and time
	Relative         string
	Icon             string
	DownloadURL      string
	GroupDownloadURL string
	DeleteURL        string
}

// MissingVM is the view model for the not-found page.
type MissingVM struct {
	viewdata.BaseVM
	Message string
}

// show resolves the file via the single-item endpoint and renders the
// detail page. Both a missing file and a backend failure land on the
// not-found page; only the status code and message differ.
func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	shortLink := chi.URLParam(r, "shortLink")

	file, err := h.api.Get(r.Context(), shortLink)
	if err != nil {
		vm := MissingVM{BaseVM: viewdata.NewBaseVM(r, "File Not Found", "/files")}
		if errors.Is(err, fileapi.ErrNotFound) {
			vm.Message = "The file you are looking for does not exist or has been deleted."
			w.WriteHeader(http.StatusNotFound)
		} else {
			h.errLog.LogWithFields(r, "failed to load file", err, zap.String("short_link", shortLink))
			vm.Message = "We could not load this file right now. Please try again later."
			w.WriteHeader(http.StatusBadGateway)
		}
		templates.Render(w, r, "detail/not_found", vm)
		return
	}

	vm := DetailVM{
		BaseVM:      viewdata.NewBaseVM(r, file.FileName, "/files"),
		FileName:    file.FileName,
		ShortLink:   file.ShortLink,
		GroupName:   file.GroupName,
		Ungrouped:   file.GroupName == "",
		Icon:        fileicon.Kind(file.FileName),
		DownloadURL: h.api.DownloadURL(file.ShortLink),
		DeleteURL:   "/files/" + url.PathEscape(file.ShortLink) + "/delete",
	}
	if !vm.Ungrouped {
		vm.GroupDownloadURL = h.api.GroupDownloadURL(file.GroupName)
	}
	if t := file.UpdatedAt(); !t.IsZero() {
		vm.Uploaded = t.Local().Format("Jan 2, 2006 3:04 PM")
		vm.Relative = humanize.Time(t)
	}
	vm.Flashes = h.flashes.Pop(w, r)

	templates.Render(w, r, "detail/show", vm)
}

// delete removes the file and returns to the listing. Failures flash
// an error instead of dead-ending on an error page.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	shortLink := chi.URLParam(r, "shortLink")

	err := h.api.Delete(r.Context(), shortLink)
	switch {
	case errors.Is(err, fileapi.ErrNotFound):
		h.flashes.Error(w, r, "That file no longer exists.")
		http.Redirect(w, r, "/files", http.StatusSeeOther)
	case err != nil:
		h.errLog.LogWithFields(r, "failed to delete file", err, zap.String("short_link", shortLink))
		h.flashes.Error(w, r, "Could not delete the file. Please try again.")
		http.Redirect(w, r, "/files/"+shortLink, http.StatusSeeOther)
	default:
		h.flashes.Success(w, r, "File deleted.")
		http.Redirect(w, r, "/files", http.StatusSeeOther)
	}
}
