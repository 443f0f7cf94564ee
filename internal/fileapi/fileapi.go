// Package fileapi is the HTTP client for the file-sharing backend.
//
// The backend owns all storage, short-link generation, and deletion;
// this client only issues requests and decodes responses. Every call
// fails fast: there are no retries and no backoff, and every failure
// is returned to the caller immediately.
package fileapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the backend reports no matching file.
var ErrNotFound = errors.New("fileapi: file not found")

// StatusError is returned for non-success responses other than 404.
type StatusError struct {
	StatusCode int
	Op         string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fileapi: %s failed with status %d", e.Op, e.StatusCode)
}

// File is one uploaded file as reported by the backend.
//
// ShortLink is the opaque identifier used for detail, download, and
// delete operations. TimeUpdated is the backend's ISO-8601 timestamp
// string; use UpdatedAt to parse it.
type File struct {
	ShortLink   string `json:"short_link"`
	FileName    string `json:"file_name"`
	GroupName   string `json:"group_name"`
	TimeUpdated string `json:"time_updated"`
}

// UpdatedAt parses the TimeUpdated field. The zero time is returned
// for timestamps the backend sends in a shape we cannot parse.
func (f *File) UpdatedAt() time.Time {
	t, err := time.Parse(time.RFC3339, f.TimeUpdated)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Meta is the pagination metadata attached to a listing page.
type Meta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// TotalPages derives the page count. The backend does not report this
// directly; it is always ceil(total / page_size).
func (m Meta) TotalPages() int {
	if m.PageSize <= 0 {
		return 0
	}
	return (m.Total + m.PageSize - 1) / m.PageSize
}

// ListResult is one page of files plus its pagination metadata.
type ListResult struct {
	Files []File `json:"files"`
	Meta  Meta   `json:"meta"`
}

// Upload is one pending file for a multi-file upload.
type Upload struct {
	FileName string
	Body     io.Reader
}

// Client calls the file-sharing backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a Client for the backend at baseURL. The timeout applies
// to every request; without it a hung backend would hang the calling
// page indefinitely.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle keep-alive connections to the backend.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// List fetches one page of files.
// GET /files?page=&page_size=
func (c *Client) List(ctx context.Context, page, pageSize int) (*ListResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fileapi: list files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Op: "list files"}
	}

	var result ListResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("fileapi: decode list response: %w", err)
	}
	return &result, nil
}

// Get fetches a single file by short link.
// GET /files/item/{shortLink}
//
// An earlier front-end fetched the full listing and searched it
// client-side, which silently missed files hidden behind pagination.
// Only the dedicated single-item endpoint is used here.
func (c *Client) Get(ctx context.Context, shortLink string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.itemURL(shortLink), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fileapi: get file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Op: "get file"}
	}

	var body struct {
		File *File `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("fileapi: decode file response: %w", err)
	}
	if body.File == nil {
		return nil, ErrNotFound
	}
	return body.File, nil
}

// UploadOne uploads a single file and returns its assigned short link.
// POST /files/upload, multipart field "file".
//
// The backend's response field is named "url" but carries a short
// link, not a full URL.
func (c *Client) UploadOne(ctx context.Context, fileName string, body io.Reader) (string, error) {
	contentType, reqBody, err := encodeMultipart("file", []Upload{{FileName: fileName, Body: body}})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", reqBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fileapi: upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &StatusError{StatusCode: resp.StatusCode, Op: "upload file"}
	}

	var result struct {
		ShortLink string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("fileapi: decode upload response: %w", err)
	}
	return result.ShortLink, nil
}

// UploadMany uploads a batch of files under one group name and returns
// the assigned short links.
// POST /files/{groupName}, repeated multipart field "files".
//
// The backend does not guarantee the returned links are positionally
// aligned with the input files; callers must treat the result as a
// set, not match it up by index.
func (c *Client) UploadMany(ctx context.Context, files []Upload, groupName string) ([]string, error) {
	if len(files) == 0 {
		return nil, errors.New("fileapi: no files to upload")
	}

	contentType, reqBody, err := encodeMultipart("files", files)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/"+url.PathEscape(groupName), reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fileapi: upload files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &StatusError{StatusCode: resp.StatusCode, Op: "upload files"}
	}

	var result struct {
		ShortLinks []string `json:"urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("fileapi: decode upload response: %w", err)
	}
	return result.ShortLinks, nil
}

// Delete removes a file by short link.
// DELETE /files/item/{shortLink}
func (c *Client) Delete(ctx context.Context, shortLink string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.itemURL(shortLink), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fileapi: delete file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Op: "delete file"}
	}
	return nil
}

// DownloadURL returns the browser-facing download URL for a file.
// Downloads go straight to the backend; this client never proxies
// file bytes.
func (c *Client) DownloadURL(shortLink string) string {
	return c.baseURL + "/files/download/" + url.PathEscape(shortLink)
}

// GroupDownloadURL returns the URL for a zip archive of a whole group.
func (c *Client) GroupDownloadURL(groupName string) string {
	return c.baseURL + "/files/download/group/" + url.PathEscape(groupName)
}

func (c *Client) itemURL(shortLink string) string {
	return c.baseURL + "/files/item/" + url.PathEscape(shortLink)
}

// encodeMultipart builds a multipart body with one part per file under
// the given field name. Bodies are read eagerly; uploads staged in the
// browser are small enough that streaming is not worth the plumbing.
func encodeMultipart(field string, files []Upload) (string, io.Reader, error) {
	var buf strings.Builder
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := w.CreateFormFile(field, f.FileName)
		if err != nil {
			return "", nil, fmt.Errorf("fileapi: encode multipart: %w", err)
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return "", nil, fmt.Errorf("fileapi: read %s: %w", f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), strings.NewReader(buf.String()), nil
}
