// Package upload provides the upload form, the multipart submit
// handler, and the post-upload confirmation page.
//
// One staged file goes to the backend's single-file endpoint; two or
// more go to the grouped endpoint under the user's group name, or a
// synthesized one when the field is left blank.
package upload

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/shareview/internal/app/features/errors"
	"github.com/dalemusser/shareview/internal/app/system/flash"
	"github.com/dalemusser/shareview/internal/app/system/formutil"
	"github.com/dalemusser/shareview/internal/app/system/viewdata"
	"github.com/dalemusser/shareview/internal/fileapi"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides the upload handlers.
type Handler struct {
	api           *fileapi.Client
	flashes       *flash.Manager
	errLog        *errorsfeature.ErrorLogger
	maxUploadSize int64
	logger        *zap.Logger
}

// NewHandler creates a new upload Handler.
func NewHandler(
	api *fileapi.Client,
	flashes *flash.Manager,
	errLog *errorsfeature.ErrorLogger,
	maxUploadSize int64,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		api:           api,
		flashes:       flashes,
		errLog:        errLog,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Routes returns a chi.Router with upload routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showForm)
	r.Post("/", h.submit)
	r.Get("/done", h.done)
	return r
}

// FormVM is the view model for the upload form.
type FormVM struct {
	formutil.Base
	GroupName   string   // user input echoed back, never a synthesized name
	StagedNames []string // file names from a failed submit
}

// LinkRow is one uploaded file on the confirmation page.
type LinkRow struct {
	ShortLink   string
	DetailURL   string
	DownloadURL string
}

// DoneVM is the view model for the confirmation page.
type DoneVM struct {
	viewdata.BaseVM
	Links []LinkRow
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	vm := FormVM{Base: formutil.NewBase(r, "Upload Files", "/files")}
	vm.Flashes = h.flashes.Pop(w, r)
	templates.Render(w, r, "upload/form", vm)
}

// submit handles the multipart upload form.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	vm := FormVM{Base: formutil.NewBase(r, "Upload Files", "/files")}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.errLog.Log(r, "failed to parse upload form", err)
		vm.SetError("Could not read the upload. The total size may be too large.")
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "upload/form", vm)
		return
	}

	headers := r.MultipartForm.File["files"]
	groupName := strings.TrimSpace(r.FormValue("group_name"))
	vm.GroupName = groupName

	if len(headers) == 0 {
		vm.SetError("Choose at least one file to upload.")
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "upload/form", vm)
		return
	}

	links, err := h.send(r, headers, groupName)
	if err != nil {
		h.errLog.LogWithFields(r, "upload failed", err, zap.Int("files", len(headers)))
		for _, hd := range headers {
			vm.StagedNames = append(vm.StagedNames, hd.Filename)
		}
		vm.SetError("Upload failed. Please try again.")
		w.WriteHeader(http.StatusBadGateway)
		templates.Render(w, r, "upload/form", vm)
		return
	}

	h.flashes.SetLinks(w, r, links)
	if len(headers) == 1 {
		h.flashes.Success(w, r, "Uploaded "+headers[0].Filename)
	} else {
		h.flashes.Success(w, r, fmt.Sprintf("Uploaded %d files", len(headers)))
	}
	http.Redirect(w, r, "/upload/done", http.StatusSeeOther)
}

// send forwards the staged files to the backend. A single file uses
// the single-file endpoint; a batch goes to the grouped endpoint, with
// a synthesized group name when none was given.
func (h *Handler) send(r *http.Request, headers []*multipart.FileHeader, groupName string) ([]string, error) {
	ctx := r.Context()

	if len(headers) == 1 {
		f, err := headers[0].Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()

		link, err := h.api.UploadOne(ctx, headers[0].Filename, f)
		if err != nil {
			return nil, err
		}
		return []string{link}, nil
	}

	if groupName == "" {
		groupName = fmt.Sprintf("group-%d", time.Now().UnixMilli())
	}

	uploads := make([]fileapi.Upload, 0, len(headers))
	for _, hd := range headers {
		f, err := hd.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		uploads = append(uploads, fileapi.Upload{FileName: hd.Filename, Body: f})
	}

	// The returned links are a set; the backend does not promise the
	// order matches the staged files.
	return h.api.UploadMany(ctx, uploads, groupName)
}

// done renders the confirmation page with the links handed off by
// submit. Arriving without an upload just bounces to the form.
func (h *Handler) done(w http.ResponseWriter, r *http.Request) {
	links := h.flashes.PopLinks(w, r)
	if len(links) == 0 {
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
		return
	}

	vm := DoneVM{BaseVM: viewdata.NewBaseVM(r, "Upload Complete", "/files")}
	vm.Flashes = h.flashes.Pop(w, r)
	for _, link := range links {
		vm.Links = append(vm.Links, LinkRow{
			ShortLink:   link,
			DetailURL:   "/files/" + url.PathEscape(link),
			DownloadURL: h.api.DownloadURL(link),
		})
	}
	templates.Render(w, r, "upload/done", vm)
}
