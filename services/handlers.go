package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edgeml-ai/secagg-go/crypto"
	"github.com/edgeml-ai/secagg-go/protocol"
)

// CoordinatorHandler exposes a Coordinator over HTTP. It implements the
// httpserver RouteRegistrar interface.
type CoordinatorHandler struct {
	coordinator *Coordinator
	log         *slog.Logger
}

// NewCoordinatorHandler creates a handler for the given coordinator.
func NewCoordinatorHandler(coordinator *Coordinator, log *slog.Logger) *CoordinatorHandler {
	return &CoordinatorHandler{coordinator: coordinator, log: log}
}

// RegisterRoutes registers the round endpoints with the router.
func (h *CoordinatorHandler) RegisterRoutes(r chi.Router) {
	r.Post("/round/join", h.handleJoin)
	r.Post("/round/shares", h.handleShares)
	r.Post("/round/masked-update", h.handleMaskedUpdate)
	r.Get("/round/dropped", h.handleDropped)
	r.Post("/round/unmasking", h.handleUnmasking)
	r.Get("/round/aggregate", h.handleAggregate)
}

func (h *CoordinatorHandler) handleJoin(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.coordinator.JoinRound()
	if err != nil {
		h.writeError(w, http.StatusConflict, err)
		return
	}
	h.writeJSON(w, &assignment)
}

func (h *CoordinatorHandler) handleShares(w http.ResponseWriter, r *http.Request) {
	upload, err := protocol.DecodeMessage[protocol.ShareBundleUpload](r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.coordinator.SubmitShareBundle(upload.ClientIndex, upload.Bundle); err != nil {
		h.writeError(w, statusForError(err), err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *CoordinatorHandler) handleMaskedUpdate(w http.ResponseWriter, r *http.Request) {
	upload, err := protocol.DecodeMessage[protocol.MaskedUpdateUpload](r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.coordinator.SubmitMaskedUpdate(upload.ClientIndex, upload.Payload); err != nil {
		h.writeError(w, statusForError(err), err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *CoordinatorHandler) handleDropped(w http.ResponseWriter, r *http.Request) {
	notice := protocol.DroppedClientsNotice{
		SessionID: h.coordinator.sessionID,
		Dropped:   h.coordinator.DroppedClients(),
	}
	h.writeJSON(w, &notice)
}

func (h *CoordinatorHandler) handleUnmasking(w http.ResponseWriter, r *http.Request) {
	upload, err := protocol.DecodeMessage[protocol.UnmaskingUpload](r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.coordinator.SubmitUnmaskingReport(upload.ClientIndex, upload.Report); err != nil {
		h.writeError(w, statusForError(err), err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *CoordinatorHandler) handleAggregate(w http.ResponseWriter, r *http.Request) {
	aggregate, err := h.coordinator.Aggregate()
	if err != nil {
		h.writeError(w, statusForError(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(aggregate)
}

func (h *CoordinatorHandler) writeJSON(w http.ResponseWriter, msg any) {
	body, err := json.Marshal(msg)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *CoordinatorHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.log.Warn("request rejected", "status", status, "err", err)
	http.Error(w, err.Error(), status)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, protocol.ErrMalformedWireData):
		return http.StatusBadRequest
	case errors.Is(err, crypto.ErrInsufficientShares):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
