package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
	"github.com/lumiere-aesthetics/matching-engine/internal/storage"
)

// RecordStore is the subset of the record repository the API writes through.
type RecordStore interface {
	Upsert(ctx context.Context, rec *storage.Record) error
	GetByID(ctx context.Context, id string) (*storage.Record, error)
	ListByKind(ctx context.Context, kind candidate.Kind) ([]candidate.RawRecord, error)
	Delete(ctx context.Context, id string) error
}

// RecordHandler manages raw candidate records. Changes become visible to
// sessions opened afterwards.
type RecordHandler struct {
	logger *observability.Logger
	store  RecordStore
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler(logger *observability.Logger, store RecordStore) *RecordHandler {
	return &RecordHandler{logger: logger, store: store}
}

// RecordListDTO wraps raw records.
type RecordListDTO struct {
	Kind    string                `json:"kind"`
	Records []candidate.RawRecord `json:"records"`
}

// Upsert handles PUT /records. The body is a raw record payload.
func (h *RecordHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var payload candidate.RawRecord
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "record payload is required", "")
		return
	}

	rec := &storage.Record{Payload: payload}
	if err := h.store.Upsert(r.Context(), rec); err != nil {
		if errors.Is(err, storage.ErrInvalidRecord) {
			writeError(w, http.StatusBadRequest, "invalid record", err.Error())
			return
		}
		h.logger.WithContext(r.Context()).Error().Err(err).Msg("Record upsert failed")
		writeError(w, http.StatusInternalServerError, "record upsert failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Get handles GET /records/{recordId}.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetByID(r.Context(), chi.URLParam(r, "recordId"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// List handles GET /records?kind=.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := candidate.ParseKind(r.URL.Query().Get("kind"))
	recs, err := h.store.ListByKind(r.Context(), kind)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if recs == nil {
		recs = []candidate.RawRecord{}
	}
	writeJSON(w, http.StatusOK, RecordListDTO{Kind: string(kind), Records: recs})
}

// Delete handles DELETE /records/{recordId}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "recordId")); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordHandler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found", "")
		return
	}
	h.logger.WithContext(r.Context()).Error().Err(err).Msg("Record store request failed")
	writeError(w, http.StatusInternalServerError, "record store error", err.Error())
}
