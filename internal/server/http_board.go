package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/groblegark/deskboard/internal/authz"
	"github.com/groblegark/deskboard/internal/board"
	"github.com/groblegark/deskboard/internal/directory"
	"github.com/groblegark/deskboard/internal/events"
	"github.com/groblegark/deskboard/internal/model"
)

// handleGetBoard handles GET /v1/board.
// The actor query parameter identifies who is looking; counters are redacted
// for actors who may not see them.
func (s *BoardServer) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r, r.URL.Query().Get("actor"))
	if !ok {
		return
	}

	ledger, err := s.loadBoard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load board")
		return
	}

	writeJSON(w, http.StatusOK, renderBoard(ledger, actor))
}

// setStatusInput is the POST /v1/workers/{id}/status request body.
type setStatusInput struct {
	Actor  string       `json:"actor"`
	Status model.Status `json:"status"`
}

// handleSetStatus handles POST /v1/workers/{id}/status.
// Requesting the worker's current status clears it back to neutral.
func (s *BoardServer) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in setStatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !in.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	actor, ok := s.requireActor(w, r, in.Actor)
	if !ok {
		return
	}
	if !authz.CanEditStatus(actor, id) {
		writeError(w, http.StatusForbidden, "not allowed to edit this status")
		return
	}

	ledger, err := s.loadBoard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load board")
		return
	}

	worker := ledger.Get(id)
	if worker == nil {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}

	previous := worker.Status
	changed, err := board.Toggle(worker, in.Status, s.clock.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if changed {
		worker.UpdatedAt = s.clock.Now().AsTime()
		if err := s.store.PutWorker(r.Context(), worker); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save status")
			return
		}
		s.recordAndPublish(r.Context(), events.TopicStatusChanged, worker.ID, actor.ID,
			events.StatusChanged{Worker: events.RefOf(worker), Previous: previous, Actor: actor.ID})
	}

	writeJSON(w, http.StatusOK, renderWorker(worker, actor))
}

// adjustCounterInput is the POST /v1/workers/{id}/counter request body.
type adjustCounterInput struct {
	Actor string `json:"actor"`
	Delta int    `json:"delta"`
}

// handleAdjustCounter handles POST /v1/workers/{id}/counter.
// The delta is clamped so the counter stays within its bounds; a clamp to
// the current value is a no-op rather than an error.
func (s *BoardServer) handleAdjustCounter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in adjustCounterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	actor, ok := s.requireActor(w, r, in.Actor)
	if !ok {
		return
	}
	if !authz.CanEditCounter(actor) {
		writeError(w, http.StatusForbidden, "not allowed to edit counters")
		return
	}

	ledger, err := s.loadBoard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load board")
		return
	}

	worker := ledger.Get(id)
	if worker == nil {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}

	previous := worker.Counter
	if board.Adjust(worker, in.Delta) {
		worker.UpdatedAt = s.clock.Now().AsTime()
		if err := s.store.PutWorker(r.Context(), worker); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save counter")
			return
		}
		s.recordAndPublish(r.Context(), events.TopicCounterChanged, worker.ID, actor.ID,
			events.CounterChanged{Worker: events.RefOf(worker), Counter: worker.Counter, Previous: previous, Delta: in.Delta, Actor: actor.ID})
	}

	writeJSON(w, http.StatusOK, renderWorker(worker, actor))
}

// requireActor resolves the actor identity and writes the appropriate error
// response when it cannot. The second return value reports success.
func (s *BoardServer) requireActor(w http.ResponseWriter, r *http.Request, id string) (model.Actor, bool) {
	actor, err := s.resolveActor(r.Context(), id)
	if err != nil {
		var ie inputError
		switch {
		case errors.As(err, &ie):
			writeError(w, http.StatusBadRequest, ie.Error())
		case errors.Is(err, directory.ErrUnknownUser):
			writeError(w, http.StatusForbidden, "unknown actor")
		default:
			writeError(w, http.StatusInternalServerError, "failed to resolve actor")
		}
		return model.Actor{}, false
	}
	return actor, true
}
