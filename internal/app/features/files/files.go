// Package files provides the file listing: a paginated browse view in
// grid or list mode, grouped by group name, with client-side row
// deletion via a small JSON endpoint.
package files

import (
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	errorsfeature "github.com/dalemusser/shareview/internal/app/features/errors"
	"github.com/dalemusser/shareview/internal/app/system/fileicon"
	"github.com/dalemusser/shareview/internal/app/system/flash"
	"github.com/dalemusser/shareview/internal/app/system/jsonutil"
	"github.com/dalemusser/shareview/internal/app/system/pagination"
	"github.com/dalemusser/shareview/internal/app/system/viewdata"
	"github.com/dalemusser/shareview/internal/app/system/viewmode"
	"github.com/dalemusser/shareview/internal/fileapi"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sortable columns in list mode.
const (
	SortByName = "file_name"
	SortByTime = "time_updated"
)

// UngroupedName is the display bucket for files uploaded without a
// group. It exists only in the view; the backend keeps the group name
// blank.
const UngroupedName = "Ungrouped"

// Handler provides the file listing handlers.
type Handler struct {
	api       *fileapi.Client
	viewModes *viewmode.Store
	flashes   *flash.Manager
	errLog    *errorsfeature.ErrorLogger
	pageSize  int
	logger    *zap.Logger
}

// NewHandler creates a new files Handler.
func NewHandler(
	api *fileapi.Client,
	viewModes *viewmode.Store,
	flashes *flash.Manager,
	errLog *errorsfeature.ErrorLogger,
	pageSize int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		api:       api,
		viewModes: viewModes,
		flashes:   flashes,
		errLog:    errLog,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// MountRoutes mounts the browse routes on the given router.
// Detail routes for /files/{shortLink} are mounted alongside these by
// the detail feature.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.browse)
	r.Post("/view-mode", h.setViewMode)
}

// APIRoutes returns the JSON routes used by the listing page scripts.
func APIRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Delete("/{shortLink}", h.deleteAPI)
	return r
}

// FileRow represents one file in the browse view.
type FileRow struct {
	ShortLink   string
	FileName    string
	GroupName   string
	Uploaded    string // absolute date, blank if unparsable
	Relative    string // "3 hours ago", blank if unparsable
	Icon        string
	DetailURL   string
	DownloadURL string
}

// GroupVM is one group section in the browse view.
type GroupVM struct {
	Name        string
	Ungrouped   bool
	DownloadURL string // zip download, empty for the ungrouped bucket
	Files       []FileRow
}

// PageLink is one numbered button in the pager.
type PageLink struct {
	Num     int
	URL     string
	Current bool
}

// PagerVM is the pagination control for the browse view.
type PagerVM struct {
	Show             bool
	Total            int
	Links            []PageLink
	ShowFirst        bool
	LeadingEllipsis  bool
	ShowLast         bool
	TrailingEllipsis bool
	FirstURL         string
	LastURL          string
	PrevURL          string
	NextURL          string
	HasPrev          bool
	HasNext          bool
}

// BrowseVM is the view model for the browse page.
type BrowseVM struct {
	viewdata.BaseVM
	Groups      []GroupVM
	ViewMode    string
	SortBy      string
	SortOrder   string
	NameSortURL string
	TimeSortURL string
	Pager       PagerVM
	Empty       bool
	LoadError   bool
	RetryURL    string
}

// browse displays one page of files, grouped by group name.
func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePage(r)
	sortBy, sortOrder := parseSort(r)
	mode := h.viewModes.Get(r)

	vm := BrowseVM{
		BaseVM:    viewdata.NewBaseVM(r, "Files", "/files"),
		ViewMode:  mode,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		RetryURL:  "/files",
	}

	res, err := h.api.List(ctx, page, h.pageSize)
	if err != nil {
		h.errLog.Log(r, "failed to list files", err)
		vm.LoadError = true
		vm.Flashes = h.flashes.Pop(w, r)
		w.WriteHeader(http.StatusBadGateway)
		templates.Render(w, r, "files/browse", vm)
		return
	}

	// A stale page number, typically after deletions shrank the
	// listing, is clamped by redirecting to the last page.
	totalPages := res.Meta.TotalPages()
	if totalPages > 0 && page > totalPages {
		http.Redirect(w, r, pageURL(totalPages, sortBy, sortOrder), http.StatusSeeOther)
		return
	}

	groups := groupFiles(res.Files)
	if mode == viewmode.List {
		for i := range groups {
			sortFiles(groups[i], sortBy, sortOrder)
		}
	}

	vm.Groups = make([]GroupVM, 0, len(groups))
	for _, g := range groups {
		gvm := GroupVM{
			Name:      g[0].GroupName,
			Ungrouped: g[0].GroupName == "",
			Files:     make([]FileRow, 0, len(g)),
		}
		if gvm.Ungrouped {
			gvm.Name = UngroupedName
		} else {
			gvm.DownloadURL = h.api.GroupDownloadURL(gvm.Name)
		}
		for _, f := range g {
			gvm.Files = append(gvm.Files, h.fileRow(f))
		}
		vm.Groups = append(vm.Groups, gvm)
	}

	vm.Empty = len(vm.Groups) == 0
	vm.NameSortURL = sortURL(page, SortByName, sortBy, sortOrder)
	vm.TimeSortURL = sortURL(page, SortByTime, sortBy, sortOrder)
	vm.Pager = buildPager(pagination.New(page, max(totalPages, 1)), sortBy, sortOrder)
	vm.Flashes = h.flashes.Pop(w, r)

	templates.Render(w, r, "files/browse", vm)
}

// setViewMode saves the grid/list preference and returns to the page
// the toggle was on. Unknown modes are ignored.
func (h *Handler) setViewMode(w http.ResponseWriter, r *http.Request) {
	mode := r.FormValue("mode")
	if err := h.viewModes.Set(w, mode); err != nil {
		h.logger.Debug("ignoring invalid view mode", zap.String("mode", mode))
	}
	http.Redirect(w, r, httpnav.ResolveBackURL(r, "/files"), http.StatusSeeOther)
}

// deleteAPI removes a file on behalf of the listing page scripts,
// which drop the row from the DOM without reloading on success.
func (h *Handler) deleteAPI(w http.ResponseWriter, r *http.Request) {
	shortLink := chi.URLParam(r, "shortLink")
	if shortLink == "" {
		jsonutil.BadRequest(w, "missing short link")
		return
	}

	err := h.api.Delete(r.Context(), shortLink)
	switch {
	case errors.Is(err, fileapi.ErrNotFound):
		jsonutil.NotFound(w, "file not found")
	case err != nil:
		h.errLog.LogWithFields(r, "failed to delete file", err, zap.String("short_link", shortLink))
		jsonutil.BadGateway(w, "delete failed")
	default:
		jsonutil.OK(w, map[string]string{"status": "deleted", "short_link": shortLink})
	}
}

func (h *Handler) fileRow(f fileapi.File) FileRow {
	row := FileRow{
		ShortLink:   f.ShortLink,
		FileName:    f.FileName,
		GroupName:   f.GroupName,
		Icon:        fileicon.Kind(f.FileName),
		DetailURL:   "/files/" + url.PathEscape(f.ShortLink),
		DownloadURL: h.api.DownloadURL(f.ShortLink),
	}
	if t := f.UpdatedAt(); !t.IsZero() {
		row.Uploaded = t.Local().Format("Jan 2, 2006")
		row.Relative = humanize.Time(t)
	}
	return row
}

// groupFiles partitions a page of files by group name, blank grouped
// together, preserving first-occurrence order so every file appears in
// exactly one bucket.
func groupFiles(files []fileapi.File) [][]fileapi.File {
	index := make(map[string]int)
	var groups [][]fileapi.File
	for _, f := range files {
		i, ok := index[f.GroupName]
		if !ok {
			i = len(groups)
			index[f.GroupName] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], f)
	}
	return groups
}

// sortFiles orders files in place by the given column and direction.
// Name comparison is locale-aware and case-insensitive; time
// comparison is on the parsed timestamps. Ties keep their fetched
// order.
func sortFiles(files []fileapi.File, sortBy, sortOrder string) {
	coll := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(files, func(i, j int) bool {
		var cmp int
		switch sortBy {
		case SortByName:
			cmp = coll.CompareString(files[i].FileName, files[j].FileName)
		default:
			ti, tj := files[i].UpdatedAt(), files[j].UpdatedAt()
			switch {
			case ti.Before(tj):
				cmp = -1
			case ti.After(tj):
				cmp = 1
			}
		}
		if sortOrder == "desc" {
			return cmp > 0
		}
		return cmp < 0
	})
}

func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parseSort reads the sort column and direction. The default is most
// recent first; a column chosen without a direction sorts ascending,
// matching what clicking a fresh column header does.
func parseSort(r *http.Request) (sortBy, sortOrder string) {
	sortBy = r.URL.Query().Get("sort")
	if sortBy != SortByName && sortBy != SortByTime {
		return SortByTime, "desc"
	}

	switch r.URL.Query().Get("order") {
	case "asc":
		sortOrder = "asc"
	case "desc":
		sortOrder = "desc"
	default:
		if sortBy == SortByTime {
			sortOrder = "desc"
		} else {
			sortOrder = "asc"
		}
	}
	return sortBy, sortOrder
}

func pageURL(page int, sortBy, sortOrder string) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if sortBy != "" {
		q.Set("sort", sortBy)
		q.Set("order", sortOrder)
	}
	return "/files?" + q.Encode()
}

// sortURL builds the header link for a column: a fresh column sorts
// ascending, re-clicking the active column flips the direction.
func sortURL(page int, column, activeBy, activeOrder string) string {
	order := "asc"
	if column == activeBy {
		if activeOrder == "asc" {
			order = "desc"
		}
	} else if column == SortByTime {
		order = "desc"
	}
	return pageURL(page, column, order)
}

func buildPager(w pagination.Window, sortBy, sortOrder string) PagerVM {
	vm := PagerVM{
		Show:             w.Total > 1,
		Total:            w.Total,
		ShowFirst:        w.ShowFirst,
		LeadingEllipsis:  w.LeadingEllipsis,
		ShowLast:         w.ShowLast,
		TrailingEllipsis: w.TrailingEllipsis,
		HasPrev:          w.HasPrev,
		HasNext:          w.HasNext,
		FirstURL:         pageURL(1, sortBy, sortOrder),
		LastURL:          pageURL(w.Total, sortBy, sortOrder),
	}
	if w.HasPrev {
		vm.PrevURL = pageURL(w.Current-1, sortBy, sortOrder)
	}
	if w.HasNext {
		vm.NextURL = pageURL(w.Current+1, sortBy, sortOrder)
	}
	for _, p := range w.Pages {
		vm.Links = append(vm.Links, PageLink{
			Num:     p,
			URL:     pageURL(p, sortBy, sortOrder),
			Current: p == w.Current,
		})
	}
	return vm
}
