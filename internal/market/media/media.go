// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package media serves uploaded listing images from the upload directory.
//
// # Security
//
// Files are opened through an [os.Root], so no request path can escape the
// directory even through symlinks. Directory listings are never produced.
package media

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/constants"
	requestutil "github.com/taibuivan/unimart/internal/platform/request"
	"github.com/taibuivan/unimart/internal/platform/respond"
)

// cacheControl lets browsers keep images for a day. Upload names are unique.
const cacheControl = "private, max-age=86400"

// ErrFileNotFound is reported for missing files and rejected paths alike.
var ErrFileNotFound = apperr.NotFound("File")

// Handler serves files below a fixed root directory.
type Handler struct {
	root   *os.Root
	logger *slog.Logger
}

// NewHandler opens dir as the serving root, creating it when absent.
func NewHandler(dir string, logger *slog.Logger) (*Handler, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("media: create upload dir: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("media: open upload dir: %w", err)
	}

	return &Handler{root: root, logger: logger}, nil
}

// Close releases the root directory handle.
func (handler *Handler) Close() error {
	return handler.root.Close()
}

// Routes returns a [chi.Router] mounted under /uploads.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/*", handler.serve)
	router.Head("/*", handler.serve)
	return router
}

/*
GET /uploads/{path}.

Response:
  - 200: file contents (Range and conditional requests supported)
  - 400: File not found, a directory, or an invalid path
  - 401: Authentication required (the access policy and the handler both check)
*/
func (handler *Handler) serve(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredPrincipal(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	raw := chi.URLParam(request, "*")

	// chi matches on the escaped path whenever the request carries one
	if request.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(raw)
		if err != nil {
			respond.Error(writer, request, ErrFileNotFound)
			return
		}
		raw = unescaped
	}

	name, ok := cleanName(raw)
	if !ok {
		respond.Error(writer, request, ErrFileNotFound)
		return
	}

	file, err := handler.root.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			handler.logger.WarnContext(request.Context(), "media_open_rejected",
				slog.String("name", name),
				slog.Any("error", err),
			)
		}
		respond.Error(writer, request, ErrFileNotFound)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		respond.Error(writer, request, apperr.Internal(fmt.Errorf("media: stat %s: %w", name, err)))
		return
	}

	if info.IsDir() || !info.Mode().IsRegular() {
		respond.Error(writer, request, ErrFileNotFound)
		return
	}

	writer.Header().Set(constants.HeaderCacheControl, cacheControl)
	writer.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(writer, request, info.Name(), info.ModTime(), file)
}

// cleanName turns a wildcard route value into a root-relative file name.
// Hidden files, empty names and any ".." segment are rejected outright.
func cleanName(raw string) (string, bool) {
	if raw == "" || strings.Contains(raw, "\\") || strings.ContainsRune(raw, 0) {
		return "", false
	}

	for _, segment := range strings.Split(raw, "/") {
		if strings.HasPrefix(segment, ".") {
			return "", false
		}
	}

	name := strings.TrimPrefix(path.Clean("/"+raw), "/")
	if name == "" || !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}
