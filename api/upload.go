package api

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/feltops/clubportal/internal/errors"
)

// UploadKind separates the two upload ceilings: KYC documents and
// notification media.
type UploadKind int

const (
	UploadDocument UploadKind = iota
	UploadMedia
)

const (
	documentSizeLimit = 5 << 20
	mediaSizeLimit    = 10 << 20
)

var documentExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".pdf": {},
}

var mediaExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".mp4": {}, ".webm": {},
}

// UploadTicket is the backend's answer to an upload-URL request: where to
// PUT the bytes and the final URL to reference in the owning record.
type UploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
}

// CheckFile validates size and extension before any network traffic.
func CheckFile(kind UploadKind, filename string, size int64) error {
	limit := int64(documentSizeLimit)
	allowed := documentExtensions
	if kind == UploadMedia {
		limit = mediaSizeLimit
		allowed = mediaExtensions
	}
	if size > limit {
		return errors.Wrapf(errors.ErrFileTooLarge, "[CheckFile] %s (%d bytes)", filename, size)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowed[ext]; !ok {
		return errors.Wrapf(errors.ErrBadFileType, "[CheckFile] %s", filename)
	}
	return nil
}

// SanitizeFilename lowercases the name and replaces anything outside
// [a-z0-9._-] with underscores, collapsing runs.
func SanitizeFilename(name string) string {
	name = strings.ToLower(filepath.Base(name))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			if r == '_' {
				if lastUnderscore {
					continue
				}
				lastUnderscore = true
			} else {
				lastUnderscore = false
			}
			b.WriteRune(r)
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// RequestUploadURL asks the backend for a signed upload URL for filename.
// The filename is sanitized before it reaches the wire.
func (c *Client) RequestUploadURL(ctx context.Context, filename, contentType string) (UploadTicket, error) {
	var ticket UploadTicket
	body := struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
	}{Filename: SanitizeFilename(filename), ContentType: contentType}
	if err := c.post(ctx, "/uploads/sign", body, &ticket); err != nil {
		return UploadTicket{}, err
	}
	return ticket, nil
}

// UploadTo PUTs the file bytes directly to the signed URL. No identity
// headers are attached; the URL itself carries the grant.
func (c *Client) UploadTo(ctx context.Context, uploadURL, contentType string, r io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, r)
	if err != nil {
		return errors.Wrapf(err, "[UploadTo] build request")
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	resp, err := c.httpC.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[UploadTo] put")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return newError(resp.StatusCode, data)
	}
	return nil
}

// UploadFile runs the full two-step flow: validate, request a signed URL,
// PUT the bytes, and return the final file URL.
func (c *Client) UploadFile(ctx context.Context, kind UploadKind, filename, contentType string, r io.Reader, size int64) (string, error) {
	if err := CheckFile(kind, filename, size); err != nil {
		return "", err
	}
	ticket, err := c.RequestUploadURL(ctx, filename, contentType)
	if err != nil {
		return "", err
	}
	if err := c.UploadTo(ctx, ticket.UploadURL, contentType, r, size); err != nil {
		return "", err
	}
	return ticket.FileURL, nil
}
