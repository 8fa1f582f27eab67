// Package server exposes loaded collections over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"shp2svg/internal/geom"
	"shp2svg/internal/render"
	"shp2svg/internal/svgpath"
)

type Handler struct {
	reg      *Registry
	log      zerolog.Logger
	defaults svgpath.Options
	style    render.Style
}

// NewHandler serves the collections in reg. defaults fill in parameters a
// request leaves out.
func NewHandler(reg *Registry, log zerolog.Logger, defaults svgpath.Options) *Handler {
	return &Handler{reg: reg, log: log, defaults: defaults, style: render.DefaultStyle()}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Get("/", h.handleIndex)
	r.Post("/collections", h.handleUpload)
	r.Get("/collections/{slug}/setup", h.handleSetup)
	r.Get("/collections/{slug}/svg", h.handleSVG)
	return r
}

type collectionSummary struct {
	Name   string   `json:"name"`
	Slug   string   `json:"slug"`
	Fields []string `json:"fields"`
	Shapes int      `json:"shapes"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	cols := h.reg.List()
	out := make([]collectionSummary, 0, len(cols))
	for _, c := range cols {
		fields := c.Fields
		if fields == nil {
			fields = []string{}
		}
		out = append(out, collectionSummary{Name: c.Name, Slug: c.Slug, Fields: fields, Shapes: len(c.Shapes)})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"collections": out})
}

// maxUploadBytes caps the multipart body of an upload.
const maxUploadBytes = 32 << 20

type uploadResponse struct {
	Name   string   `json:"name"`
	Slug   string   `json:"slug"`
	Fields []string `json:"fields"`
}

// handleUpload registers a dataset sent as the multipart "file" field. An
// optional "name" field overrides the name taken from the file name.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "expected a multipart form with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll()
	f, hdr, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "file is required")
		return
	}
	defer f.Close()
	if !geom.Supported(hdr.Filename) {
		h.writeError(w, http.StatusUnsupportedMediaType, "unsupported_format",
			fmt.Sprintf("unsupported file %q: expected .geojson, .json, .wkt, .csv or .kml", hdr.Filename))
		return
	}
	c, err := geom.Read(hdr.Filename, f)
	if err != nil {
		h.log.Info().Err(err).Str("file", hdr.Filename).Msg("upload rejected")
		h.writeError(w, http.StatusUnprocessableEntity, "invalid_dataset", err.Error())
		return
	}
	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		c.Name = name
		c.Slug = geom.Slugify(name)
	}
	if c.Slug == "" {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "name must contain letters or digits")
		return
	}
	if !h.reg.Create(c) {
		h.writeError(w, http.StatusConflict, "conflict", fmt.Sprintf("collection %q already exists", c.Slug))
		return
	}
	h.log.Info().Str("slug", c.Slug).Int("shapes", len(c.Shapes)).Msg("collection uploaded")
	fields := c.Fields
	if fields == nil {
		fields = []string{}
	}
	h.writeJSON(w, http.StatusCreated, uploadResponse{Name: c.Name, Slug: c.Slug, Fields: fields})
}

func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	c, ok := h.reg.Get(slug)
	if !ok {
		h.writeError(w, http.StatusNotFound, "not_found", "collection not found")
		return
	}
	opts, err := parseSetupParams(r, h.defaults)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	res, err := svgpath.ProjectContext(r.Context(), c.Shapes, opts)
	if err != nil {
		h.projectionFailed(w, slug, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleSVG(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	c, ok := h.reg.Get(slug)
	if !ok {
		h.writeError(w, http.StatusNotFound, "not_found", "collection not found")
		return
	}
	res, err := svgpath.ProjectContext(r.Context(), c.Shapes, h.defaults)
	if err != nil {
		h.projectionFailed(w, slug, err)
		return
	}
	if res.Canvas.Width <= 0 || res.Canvas.Height <= 0 {
		h.writeError(w, http.StatusUnprocessableEntity, "projection_failed",
			fmt.Sprintf("canvas %dx%d is empty", res.Canvas.Width, res.Canvas.Height))
		return
	}
	st := h.style
	st.Title = c.Name
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.WriteSVG(w, res, st); err != nil {
		h.log.Error().Err(err).Str("slug", slug).Msg("render svg failed")
	}
}

// parseSetupParams reads max_size, key, translate_x, translate_y and
// centroid. srid is accepted and ignored: shapes are already projected.
func parseSetupParams(r *http.Request, defaults svgpath.Options) (svgpath.Options, error) {
	q := r.URL.Query()
	opts := defaults
	opts.IncludeCentroid = false

	raw := strings.TrimSpace(q.Get("max_size"))
	if raw == "" {
		return opts, errors.New("max_size is required")
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size <= 0 {
		return opts, fmt.Errorf("max_size must be a positive integer, got %q", raw)
	}
	opts.MaxSize = float64(size)

	if k := strings.TrimSpace(q.Get("key")); k != "" {
		opts.Key = k
	}
	if opts.Offset.DX, err = parseIntParam(q.Get("translate_x"), "translate_x"); err != nil {
		return opts, err
	}
	if opts.Offset.DY, err = parseIntParam(q.Get("translate_y"), "translate_y"); err != nil {
		return opts, err
	}
	switch strings.ToLower(q.Get("centroid")) {
	case "on", "true", "1":
		opts.IncludeCentroid = true
	}
	return opts, nil
}

func parseIntParam(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

func (h *Handler) projectionFailed(w http.ResponseWriter, slug string, err error) {
	var (
		empty  *svgpath.EmptyInputError
		degen  *svgpath.DegenerateExtentError
		ring   *svgpath.EmptyRingError
		sizeEr *svgpath.InvalidSizeError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.Warn().Err(err).Str("slug", slug).Msg("projection interrupted")
	case errors.As(err, &empty), errors.As(err, &degen), errors.As(err, &ring), errors.As(err, &sizeEr):
		h.log.Info().Err(err).Str("slug", slug).Msg("collection cannot be projected")
		h.writeError(w, http.StatusUnprocessableEntity, "projection_failed", err.Error())
	default:
		h.log.Error().Err(err).Str("slug", slug).Msg("projection failed")
		h.writeError(w, http.StatusInternalServerError, "internal", "projection failed")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("write response failed")
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string) {
	h.writeJSON(w, status, map[string]apiError{"error": {Code: code, Message: msg}})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
