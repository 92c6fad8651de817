package httpserver

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"listings_admin/internal/app"
	"listings_admin/internal/domain"
)

const (
	maxJSONBody = 1 << 20
	maxCSVBody  = 32 << 20
)

type Handlers struct {
	Services *app.Services
	Importer *app.ImportService
	// Ready reports whether the backing store answers; nil means always ready.
	Ready func(ctx context.Context) error

	RequestTimeout time.Duration
	ImportTimeout  time.Duration
	// MaxUploadBytes caps CSV bulk import bodies; zero means 32 MiB.
	MaxUploadBytes int64
}

type uploadTooLarge struct {
	Message string `json:"message"`
	app.BulkReport
}

type apiError struct {
	Message string           `json:"message"`
	Errors  []app.FieldIssue `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	reqTimeout, impTimeout := h.RequestTimeout, h.ImportTimeout
	if reqTimeout <= 0 {
		reqTimeout = 15 * time.Second
	}
	if impTimeout <= 0 {
		impTimeout = 5 * time.Minute
	}

	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.ready)

	sv := h.Services
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(reqTimeout))
		mountResource(r, sv.Properties.ResourceService)
		mountResource(r, sv.Neighborhoods)
		mountResource(r, sv.Developments)
		mountResource(r, sv.Enquiries.ResourceService)
		mountResource(r, sv.Agents)
		mountResource(r, sv.Articles)
		mountResource(r, sv.BannerHighlights)
		mountResource(r, sv.Developers)
		mountResource(r, sv.Sitemap)
		r.Put("/api/enquiries/{id}/read", h.markEnquiryRead)
		r.Get("/api/export/{entity}", h.export)
	})
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(impTimeout))
		r.Post("/api/import/{entity}", h.bulkImport)
		r.Get("/api/import-properties", h.importProperties)
	})
}

/********** response helpers **********/

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Message: msg})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached answers 304 when the client already holds this representation.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

// writeFailure maps service errors onto the 400/404/500 taxonomy. failMsg is
// the fixed message used for anything unexpected; the cause is only logged.
func writeFailure(w http.ResponseWriter, r *http.Request, k app.Kind, err error, failMsg string) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, apiError{Message: "Validation failed", Errors: verr.Issues})
	case errors.Is(err, app.ErrInvalidPayload):
		writeMessage(w, http.StatusBadRequest, "Invalid request data")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, k.Title()+" not found")
	default:
		log.Error().Err(err).
			Str("kind", k.Name).
			Str("path", r.URL.Path).
			Msg(failMsg)
		writeMessage(w, http.StatusInternalServerError, failMsg)
	}
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
}

/********** CRUD **********/

type resource[R domain.Record[F], F any] struct {
	svc *app.ResourceService[R, F]
}

func mountResource[R domain.Record[F], F any](r chi.Router, svc *app.ResourceService[R, F]) {
	h := resource[R, F]{svc: svc}
	base := "/api/" + svc.Kind().Route
	r.Get(base, h.list)
	r.Post(base, h.create)
	r.Get(base+"/{id}", h.get)
	r.Put(base+"/{id}", h.update)
	r.Delete(base+"/{id}", h.delete)
}

func (h resource[R, F]) list(w http.ResponseWriter, r *http.Request) {
	k := h.svc.Kind()
	out, err := h.svc.List(r.Context())
	if err != nil {
		writeFailure(w, r, k, err, "Failed to fetch "+k.Plural)
		return
	}
	writeCached(w, r, out)
}

func (h resource[R, F]) get(w http.ResponseWriter, r *http.Request) {
	k := h.svc.Kind()
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	out, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, r, k, err, "Failed to fetch "+k.Singular)
		return
	}
	writeCached(w, r, out)
}

func (h resource[R, F]) create(w http.ResponseWriter, r *http.Request) {
	k := h.svc.Kind()
	body, err := readBody(w, r, maxJSONBody)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	out, err := h.svc.CreateJSON(r.Context(), body)
	if err != nil {
		writeFailure(w, r, k, err, "Failed to create "+k.Singular)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h resource[R, F]) update(w http.ResponseWriter, r *http.Request) {
	k := h.svc.Kind()
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	body, err := readBody(w, r, maxJSONBody)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	out, err := h.svc.Patch(r.Context(), id, body)
	if err != nil {
		writeFailure(w, r, k, err, "Failed to update "+k.Singular)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h resource[R, F]) delete(w http.ResponseWriter, r *http.Request) {
	k := h.svc.Kind()
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, k, err, "Failed to delete "+k.Singular)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** enquiries **********/

func (h *Handlers) markEnquiryRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	out, err := h.Services.Enquiries.MarkRead(r.Context(), id)
	if err != nil {
		writeFailure(w, r, app.KindEnquiry, err, "Failed to mark enquiry as read")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

/********** export / import **********/

func (h *Handlers) export(w http.ResponseWriter, r *http.Request) {
	e, ok := h.Services.Entity(chi.URLParam(r, "entity"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid entity type")
		return
	}
	k := e.Kind()

	// buffered so a failure halfway still becomes a clean 500
	var buf bytes.Buffer
	n, err := e.ExportCSV(r.Context(), &buf)
	if err != nil {
		writeFailure(w, r, k, err, "Failed to export data")
		return
	}
	log.Debug().Str("kind", k.Name).Int("rows", n).Msg("csv export")

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+k.Export+".csv")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("failed to write csv export")
	}
}

func (h *Handlers) bulkImport(w http.ResponseWriter, r *http.Request) {
	e, ok := h.Services.Entity(chi.URLParam(r, "entity"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid entity type")
		return
	}
	k := e.Kind()
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = maxCSVBody
	}
	rep, err := e.ImportCSV(r.Context(), http.MaxBytesReader(w, r.Body, limit))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		// rows before the cut were already created and stay
		writeJSON(w, http.StatusRequestEntityTooLarge, uploadTooLarge{
			Message:    fmt.Sprintf("CSV upload exceeds %d bytes; %d rows read before the limit were kept", tooLarge.Limit, rep.Created),
			BulkReport: rep,
		})
		return
	}
	if errors.Is(err, app.ErrBadCSV) {
		writeMessage(w, http.StatusBadRequest, "Invalid CSV data")
		return
	}
	if err != nil {
		writeFailure(w, r, k, err, "Failed to import "+k.Plural)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handlers) importProperties(w http.ResponseWriter, r *http.Request) {
	if h.Importer == nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to import properties")
		return
	}
	rep, err := h.Importer.Run(r.Context())
	if errors.Is(err, app.ErrEmptyFeed) {
		writeMessage(w, http.StatusNotFound, "No properties found in XML data")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("property import failed")
		writeMessage(w, http.StatusInternalServerError, "Failed to import properties")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

/********** health **********/

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ready(ctx); err != nil {
			log.Warn().Err(err).Msg("readiness check failed")
			writeMessage(w, http.StatusServiceUnavailable, "Not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
