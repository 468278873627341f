package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/groblegark/deskboard/internal/authz"
	"github.com/groblegark/deskboard/internal/events"
	"github.com/groblegark/deskboard/internal/model"
	"github.com/groblegark/deskboard/internal/store"
)

// createWorkerInput is the POST /v1/workers request body.
type createWorkerInput struct {
	Actor       string     `json:"actor"`
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Role        model.Role `json:"role"`
}

// handleCreateWorker handles POST /v1/workers.
func (s *BoardServer) handleCreateWorker(w http.ResponseWriter, r *http.Request) {
	var in createWorkerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if in.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "display_name is required")
		return
	}
	if in.Role == "" {
		in.Role = model.RoleUnderwriter
	}
	if !in.Role.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	actor, ok := s.requireActor(w, r, in.Actor)
	if !ok {
		return
	}
	if !authz.CanManageWorkers(actor) {
		writeError(w, http.StatusForbidden, "not allowed to manage workers")
		return
	}

	worker := model.NewWorker(in.ID, in.DisplayName, in.Role, s.clock.Now().AsTime())
	if err := model.ValidateWorker(worker); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateWorker(r.Context(), worker); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create worker")
		return
	}
	s.invalidateDirectory(worker.ID)

	s.recordAndPublish(r.Context(), events.TopicWorkerAdded, worker.ID, actor.ID,
		events.WorkerAdded{Worker: events.RefOf(worker), Actor: actor.ID})

	writeJSON(w, http.StatusCreated, renderWorker(worker, actor))
}

// handleListWorkers handles GET /v1/workers.
// Counters are redacted per actor, the same as the board view.
func (s *BoardServer) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r, r.URL.Query().Get("actor"))
	if !ok {
		return
	}

	workers, err := s.store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list workers")
		return
	}

	views := make([]workerView, 0, len(workers))
	for _, worker := range workers {
		views = append(views, renderWorker(worker, actor))
	}
	writeJSON(w, http.StatusOK, map[string]any{"workers": views})
}

// handleGetWorker handles GET /v1/workers/{id}.
func (s *BoardServer) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	actor, ok := s.requireActor(w, r, r.URL.Query().Get("actor"))
	if !ok {
		return
	}

	worker, err := s.store.GetWorker(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get worker")
		return
	}

	writeJSON(w, http.StatusOK, renderWorker(worker, actor))
}

// handleDeleteWorker handles DELETE /v1/workers/{id}.
// The actor comes from the query string since DELETE bodies are unreliable.
func (s *BoardServer) handleDeleteWorker(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	actor, ok := s.requireActor(w, r, r.URL.Query().Get("actor"))
	if !ok {
		return
	}
	if !authz.CanManageWorkers(actor) {
		writeError(w, http.StatusForbidden, "not allowed to manage workers")
		return
	}

	if err := s.store.DeleteWorker(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "worker not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete worker")
		return
	}
	s.invalidateDirectory(id)

	s.recordAndPublish(r.Context(), events.TopicWorkerRemoved, id, actor.ID,
		events.WorkerRemoved{WorkerID: id, Actor: actor.ID})

	w.WriteHeader(http.StatusNoContent)
}

// handleListUsers handles GET /v1/users.
func (s *BoardServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.directory.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// handleListAudit handles GET /v1/audit.
// The store keeps full event payloads; counter values are stripped from them
// here for actors who may not view counters.
func (s *BoardServer) handleListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 100
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	actor, ok := s.requireActor(w, r, q.Get("actor"))
	if !ok {
		return
	}

	evts, err := s.store.ListEvents(r.Context(), q.Get("worker"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if evts == nil {
		evts = []*model.Event{}
	}

	if !authz.CanViewCounter(actor) {
		redacted := make([]*model.Event, len(evts))
		for i, ev := range evts {
			cp := *ev
			cp.Payload = events.RedactCounters(ev.Topic, ev.Payload)
			redacted[i] = &cp
		}
		evts = redacted
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": evts})
}

// invalidateDirectory drops the directory cache entry for an identity after
// a worker record changes.
func (s *BoardServer) invalidateDirectory(id string) {
	if d, ok := s.directory.(interface{ Invalidate(string) }); ok {
		d.Invalidate(id)
	}
}
