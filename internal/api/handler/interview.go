package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Rrens/mock-interview/internal/api/response"
	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/Rrens/mock-interview/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// InterviewHandler handles the interview endpoints
type InterviewHandler struct {
	interviewService *service.InterviewService
	exportService    *service.ExportService
	legacyStatusOK   bool
}

// NewInterviewHandler creates a new interview handler. With legacyStatusOK
// every logical error is sent with HTTP 200 and only the body carries it.
func NewInterviewHandler(interviewService *service.InterviewService, exportService *service.ExportService, legacyStatusOK bool) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		exportService:    exportService,
		legacyStatusOK:   legacyStatusOK,
	}
}

// Start handles POST /start
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var input domain.StartRequest
	if msg := decodeAndValidate(w, r, &input); msg != nil {
		h.fail(w, http.StatusBadRequest, msg)
		return
	}

	resp, err := h.interviewService.Start(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("failed to start interview")
		h.fail(w, http.StatusInternalServerError, "failed to start interview")
		return
	}

	response.OK(w, resp)
}

// Answer handles POST /answer
func (h *InterviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var input domain.AnswerRequest
	if msg := decodeAndValidate(w, r, &input); msg != nil {
		h.fail(w, http.StatusBadRequest, msg)
		return
	}

	resp, err := h.interviewService.Answer(r.Context(), input)
	switch {
	case err == nil:
		response.OK(w, resp)
	case errors.Is(err, domain.ErrSessionNotFound):
		h.fail(w, http.StatusNotFound, "Invalid session ID")
	case errors.Is(err, domain.ErrAlreadyComplete):
		h.fail(w, http.StatusConflict, "Interview already completed")
	default:
		log.Error().Err(err).Str("session_id", input.SessionID).Msg("failed to record answer")
		h.fail(w, http.StatusInternalServerError, "failed to record answer")
	}
}

// Results handles GET /results/{session_id}
func (h *InterviewHandler) Results(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	resp, err := h.interviewService.Results(r.Context(), sessionID)
	switch {
	case err == nil:
		response.OK(w, resp)
	case errors.Is(err, domain.ErrSessionNotFound):
		h.fail(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, domain.ErrNotYetComplete):
		h.fail(w, http.StatusConflict, "Interview not completed yet")
	default:
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to build results")
		h.fail(w, http.StatusInternalServerError, "failed to build results")
	}
}

// SaveInterview handles POST /save_interview/{session_id}
func (h *InterviewHandler) SaveInterview(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	location, err := h.exportService.Save(r.Context(), sessionID)
	switch {
	case err == nil:
		response.OK(w, map[string]string{
			"message": "Interview log saved as " + location,
		})
	case errors.Is(err, domain.ErrSessionNotFound):
		h.fail(w, http.StatusNotFound, "Session not found")
	default:
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to save interview log")
		cause := strings.TrimPrefix(err.Error(), domain.ErrPersistence.Error()+": ")
		h.fail(w, http.StatusInternalServerError, "Failed to save log: "+cause)
	}
}

// Status handles GET /status
func (h *InterviewHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp, err := h.interviewService.Status(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to read status")
		h.fail(w, http.StatusInternalServerError, "failed to read status")
		return
	}
	response.OK(w, resp)
}

// Reset handles POST /reset
func (h *InterviewHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.interviewService.Reset(r.Context()); err != nil {
		log.Error().Err(err).Msg("failed to reset sessions")
		h.fail(w, http.StatusInternalServerError, "failed to reset sessions")
		return
	}
	response.OK(w, map[string]string{
		"status": "All sessions reset",
	})
}

func (h *InterviewHandler) fail(w http.ResponseWriter, status int, message any) {
	if h.legacyStatusOK {
		status = http.StatusOK
	}
	response.Error(w, status, message)
}
