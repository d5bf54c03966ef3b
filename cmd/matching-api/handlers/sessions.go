package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/matching"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
)

// SessionHandler serves browse sessions.
type SessionHandler struct {
	logger      *observability.Logger
	svc         *matching.Service
	defaultKind candidate.Kind
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(logger *observability.Logger, svc *matching.Service, defaultKind candidate.Kind) *SessionHandler {
	return &SessionHandler{logger: logger, svc: svc, defaultKind: defaultKind}
}

// OpenSessionDTO is the body of POST /sessions.
type OpenSessionDTO struct {
	Kind string `json:"kind,omitempty"`
}

// PrefillCandidateDTO is the body of POST /sessions/{id}/candidates/{candidateId}/prefill.
type PrefillCandidateDTO struct {
	Criteria       criteria.Criteria `json:"criteria"`
	ExplicitRegion string            `json:"explicitRegion,omitempty"`
}

// Open handles POST /sessions.
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	kind := h.defaultKind
	if req.Kind != "" {
		kind = candidate.ParseKind(req.Kind)
	}

	sess, err := h.svc.OpenSession(r.Context(), kind)
	if err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Msg("Open session failed")
		writeError(w, http.StatusServiceUnavailable, "record store unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// Get handles GET /sessions/{sessionId}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Session(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Close handles DELETE /sessions/{sessionId}.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CloseSession(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Browse handles POST /sessions/{sessionId}/browse.
func (h *SessionHandler) Browse(w http.ResponseWriter, r *http.Request) {
	var c criteria.Criteria
	if err := decodeBody(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	res, err := h.svc.Browse(r.Context(), chi.URLParam(r, "sessionId"), c)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Prefill handles POST /sessions/{sessionId}/candidates/{candidateId}/prefill.
func (h *SessionHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	var req PrefillCandidateDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	sess, err := h.svc.Session(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	p, err := sess.Prefill(chi.URLParam(r, "candidateId"), req.Criteria, req.ExplicitRegion)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *SessionHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matching.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found", "")
	case errors.Is(err, matching.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "candidate not found", "")
	default:
		h.logger.Error().Err(err).Msg("Session request failed")
		writeError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
