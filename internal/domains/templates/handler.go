package templates

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/outreach-engine/internal/handlers"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterTemplateRoutes(r chi.Router) {
	r.Post("/render", h.render)
	r.Post("/preview", h.preview)
	r.Post("/placeholders", h.placeholders)
	r.Post("/render-batch", h.renderBatch)
	r.Post("/render-jobs", h.enqueueRenderJobs)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	response, err := h.svc.Render(req)
	if err != nil {
		respondTemplateError(w, err)
		return
	}

	handlers.RespondWithJSON(w, http.StatusOK, response)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	handlers.RespondWithJSON(w, http.StatusOK, h.svc.Preview(req))
}

func (h *Handler) placeholders(w http.ResponseWriter, r *http.Request) {
	var req PlaceholdersRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	handlers.RespondWithJSON(w, http.StatusOK, h.svc.Placeholders(req))
}

func (h *Handler) renderBatch(w http.ResponseWriter, r *http.Request) {
	var req RenderBatchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	response, err := h.svc.RenderBatch(r.Context(), req)
	if err != nil {
		respondTemplateError(w, err)
		return
	}

	handlers.RespondWithJSON(w, http.StatusOK, response)
}

func (h *Handler) enqueueRenderJobs(w http.ResponseWriter, r *http.Request) {
	var req EnqueueRenderJobsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	response, err := h.svc.EnqueueRenderJobs(r.Context(), req)
	if err != nil {
		respondTemplateError(w, err)
		return
	}

	handlers.RespondWithJSON(w, http.StatusAccepted, response)
}

func respondTemplateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownChannel), errors.Is(err, ErrSubjectNotAllowed):
		handlers.RespondWithError(w, http.StatusBadRequest, "INVALID_TEMPLATE", err.Error())
	case errors.Is(err, ErrNoRecipients):
		handlers.RespondWithError(w, http.StatusBadRequest, "EMPTY_RECIPIENTS", err.Error())
	case errors.Is(err, ErrQueueDisabled):
		handlers.RespondWithError(w, http.StatusServiceUnavailable, "QUEUE_DISABLED", err.Error())
	default:
		log.Error().Err(err).Msg("Template request failed")
		handlers.RespondWithError(w, http.StatusInternalServerError, "RENDER_FAILED", "Failed to render template: "+err.Error())
	}
}
