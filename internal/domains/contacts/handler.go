package contacts

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/outreach-engine/internal/handlers"
)

type Handler struct {
	svc            *Service
	maxUploadBytes int64
}

func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, maxUploadBytes: maxUploadBytes}
}

func (h *Handler) RegisterContactRoutes(r chi.Router) {
	r.Post("/import/csv", h.importCSV)
	r.Post("/import/records", h.importRecords)
	r.Get("/fields", h.listFields)
}

// importCSV accepts either a multipart form with a "file" part or a raw CSV
// request body.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var (
		body   io.Reader = r.Body
		source           = "csv"
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, fh, err := r.FormFile("file")
		if err != nil {
			if isTooLarge(err) {
				handlers.RespondWithError(w, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "Upload exceeds the size limit")
				return
			}
			handlers.RespondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Missing CSV file part: "+err.Error())
			return
		}
		defer file.Close()
		body = file
		source = fh.Filename
	}

	result, err := h.svc.ImportCSV(r.Context(), body, source)
	if err != nil {
		switch {
		case isTooLarge(err):
			handlers.RespondWithError(w, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "Upload exceeds the size limit")
		case errors.Is(err, ErrMalformedInput):
			handlers.RespondWithError(w, http.StatusBadRequest, "MALFORMED_INPUT", err.Error())
		default:
			log.Error().Err(err).Str("source", source).Msg("Failed to import contacts")
			handlers.RespondWithError(w, http.StatusInternalServerError, "IMPORT_FAILED", "Failed to import contacts: "+err.Error())
		}
		return
	}

	handlers.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) importRecords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var req ImportRecordsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if req.Source == "" {
		req.Source = "records"
	}

	result, err := h.svc.ImportRecords(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("source", req.Source).Msg("Failed to import contacts")
		handlers.RespondWithError(w, http.StatusInternalServerError, "IMPORT_FAILED", "Failed to import contacts: "+err.Error())
		return
	}

	handlers.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) listFields(w http.ResponseWriter, r *http.Request) {
	handlers.RespondWithJSON(w, http.StatusOK, h.svc.Fields())
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
