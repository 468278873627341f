package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/groblegark/deskboard/internal/clock"
	"github.com/groblegark/deskboard/internal/events"
	"github.com/groblegark/deskboard/internal/model"
)

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHandleHealth(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "GET", "/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleGetBoard_AssignerSeesCounters(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "GET", "/v1/board?actor=boss@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	view := decodeBody[boardView](t, rec)
	if len(view.Workers) != 3 {
		t.Fatalf("got %d workers, want 3", len(view.Workers))
	}
	for _, w := range view.Workers {
		if w.Counter == nil {
			t.Errorf("worker %s: counter redacted for assigner", w.ID)
		}
	}
}

func TestHandleGetBoard_UnderwriterCountersRedacted(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "GET", "/v1/board?actor=amy@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	view := decodeBody[boardView](t, rec)
	for _, w := range view.Workers {
		if w.Counter != nil {
			t.Errorf("worker %s: counter visible to underwriter", w.ID)
		}
	}
}

func TestHandleGetBoard_UnknownActor(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "GET", "/v1/board?actor=stranger@example.com", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestHandleGetBoard_MissingActor(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "GET", "/v1/board", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSetStatus_SelfToggle(t *testing.T) {
	_, ms, handler := newTestServer()

	rec := doRequest(t, handler, "POST", "/v1/workers/amy@example.com/status",
		`{"actor":"amy@example.com","status":"green"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[model.Worker](t, rec)
	if got.Status != model.StatusGreen {
		t.Errorf("status = %q, want green", got.Status)
	}
	if got.StatusChangedAt == nil || got.StatusChangedLabel == "" {
		t.Error("expected status change stamp on non-neutral status")
	}

	// Requesting the same status again clears it back to neutral.
	rec = doRequest(t, handler, "POST", "/v1/workers/amy@example.com/status",
		`{"actor":"amy@example.com","status":"green"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got = decodeBody[model.Worker](t, rec)
	if got.Status != model.StatusNeutral {
		t.Errorf("status = %q, want neutral after second toggle", got.Status)
	}
	if got.StatusChangedAt != nil {
		t.Error("expected cleared stamp on neutral status")
	}

	topics := ms.eventTopics()
	if len(topics) != 2 || topics[0] != "board.status.changed" || topics[1] != "board.status.changed" {
		t.Errorf("event topics = %v", topics)
	}
}

func TestHandleSetStatus_OverwriteWithoutPassingNeutral(t *testing.T) {
	_, _, handler := newTestServer()

	doRequest(t, handler, "POST", "/v1/workers/amy@example.com/status",
		`{"actor":"amy@example.com","status":"red"}`)
	rec := doRequest(t, handler, "POST", "/v1/workers/amy@example.com/status",
		`{"actor":"amy@example.com","status":"green"}`)
	got := decodeBody[model.Worker](t, rec)
	if got.Status != model.StatusGreen {
		t.Errorf("status = %q, want green (direct overwrite)", got.Status)
	}
}

func TestHandleSetStatus_AssignerEditsOthers(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "POST", "/v1/workers/amy@example.com/status",
		`{"actor":"boss@example.com","status":"red"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSetStatus_UnderwriterCannotEditOthers(t *testing.T) {
	_, ms, handler := newTestServer()
	rec := doRequest(t, handler, "POST", "/v1/workers/ben@example.com/status",
		`{"actor":"amy@example.com","status":"green"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if len(ms.eventTopics()) != 0 {
		t.Error("rejected mutation must not record events")
	}
}

func TestHandleSetStatus_UnknownWorker(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "POST", "/v1/workers/ghost@example.com/status",
		`{"actor":"boss@example.com","status":"green"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleSetStatus_InvalidStatus(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "POST", "/v1/workers/amy@example.com/status",
		`{"actor":"amy@example.com","status":"purple"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleAdjustCounter_Assigner(t *testing.T) {
	_, ms, handler := newTestServer()
	rec := doRequest(t, handler, "POST", "/v1/workers/amy@example.com/counter",
		`{"actor":"boss@example.com","delta":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[model.Worker](t, rec)
	if got.Counter != 3 {
		t.Errorf("counter = %d, want 3", got.Counter)
	}
	topics := ms.eventTopics()
	if len(topics) != 1 || topics[0] != "board.counter.changed" {
		t.Errorf("event topics = %v", topics)
	}
}

func TestHandleAdjustCounter_UnderwriterForbidden(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "POST", "/v1/workers/amy@example.com/counter",
		`{"actor":"amy@example.com","delta":1}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestHandleAdjustCounter_DecrementBelowZeroIsNoop(t *testing.T) {
	_, ms, handler := newTestServer()
	rec := doRequest(t, handler, "POST", "/v1/workers/amy@example.com/counter",
		`{"actor":"boss@example.com","delta":-1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[model.Worker](t, rec)
	if got.Counter != 0 {
		t.Errorf("counter = %d, want 0", got.Counter)
	}
	if len(ms.eventTopics()) != 0 {
		t.Error("clamped no-op must not record an event")
	}
}

func TestHandleAdjustCounter_ClampsAtMax(t *testing.T) {
	w := model.NewWorker("amy@example.com", "Amy", model.RoleUnderwriter, testInstant)
	w.Counter = model.MaxCounter
	boss := model.NewWorker("boss@example.com", "Boss", model.RoleAssigner, testInstant)
	_, _, handler := newTestServer(w, boss)

	rec := doRequest(t, handler, "POST", "/v1/workers/amy@example.com/counter",
		`{"actor":"boss@example.com","delta":5}`)
	got := decodeBody[model.Worker](t, rec)
	if got.Counter != model.MaxCounter {
		t.Errorf("counter = %d, want %d", got.Counter, model.MaxCounter)
	}
}

func TestDailyResetOnBoardLoad(t *testing.T) {
	w := model.NewWorker("amy@example.com", "Amy", model.RoleUnderwriter, testInstant)
	w.Status = model.StatusGreen
	w.Counter = 7
	boss := model.NewWorker("boss@example.com", "Boss", model.RoleAssigner, testInstant)

	ms := newMockStore(w, boss)
	ms.epoch = "2024-01-14" // board still on yesterday's date
	srv := NewBoardServer(ms, &events.NoopPublisher{}, clock.Frozen{At: testInstant})
	handler := srv.NewHTTPHandler("")

	rec := doRequest(t, handler, "GET", "/v1/board?actor=boss@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	view := decodeBody[boardView](t, rec)
	if view.Epoch != "2024-01-15" {
		t.Errorf("epoch = %q, want 2024-01-15", view.Epoch)
	}
	for _, wv := range view.Workers {
		if wv.Status != model.StatusNeutral {
			t.Errorf("worker %s: status = %q after reset", wv.ID, wv.Status)
		}
		if wv.Counter != nil && *wv.Counter != 0 {
			t.Errorf("worker %s: counter = %d after reset", wv.ID, *wv.Counter)
		}
	}
	if ms.resetCalls != 1 {
		t.Errorf("resetCalls = %d, want 1", ms.resetCalls)
	}

	// A second load on the same civil date must not reset again.
	doRequest(t, handler, "GET", "/v1/board?actor=boss@example.com", "")
	if ms.resetCalls != 1 {
		t.Errorf("resetCalls = %d after second load, want 1", ms.resetCalls)
	}
}

func TestHandleCreateWorker(t *testing.T) {
	_, ms, handler := newTestServer()
	rec := doRequest(t, handler, "POST", "/v1/workers",
		`{"actor":"boss@example.com","id":"cara@example.com","display_name":"Cara","role":"underwriter"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[model.Worker](t, rec)
	if got.Status != model.StatusNeutral || got.Counter != 0 {
		t.Errorf("new worker not in creation state: %+v", got)
	}
	if _, ok := ms.workers["cara@example.com"]; !ok {
		t.Error("worker not persisted")
	}
	topics := ms.eventTopics()
	if len(topics) != 1 || topics[0] != "board.worker.added" {
		t.Errorf("event topics = %v", topics)
	}
}

func TestHandleCreateWorker_UnderwriterForbidden(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "POST", "/v1/workers",
		`{"actor":"amy@example.com","id":"cara@example.com","display_name":"Cara"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestHandleDeleteWorker(t *testing.T) {
	_, ms, handler := newTestServer()
	rec := doRequest(t, handler, "DELETE", "/v1/workers/amy@example.com?actor=boss@example.com", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, ok := ms.workers["amy@example.com"]; ok {
		t.Error("worker still present after delete")
	}

	rec = doRequest(t, handler, "DELETE", "/v1/workers/amy@example.com?actor=boss@example.com", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestHandleGetWorker(t *testing.T) {
	_, _, handler := newTestServer()
	rec := doRequest(t, handler, "GET", "/v1/workers/amy@example.com?actor=boss@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = doRequest(t, handler, "GET", "/v1/workers/ghost@example.com?actor=boss@example.com", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	rec = doRequest(t, handler, "GET", "/v1/workers/amy@example.com", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status without actor = %d, want 400", rec.Code)
	}
}

func TestHandleGetWorker_CounterRedaction(t *testing.T) {
	ben := model.NewWorker("ben@example.com", "Ben", model.RoleUnderwriter, testInstant)
	ben.Counter = 7
	amy := model.NewWorker("amy@example.com", "Amy", model.RoleUnderwriter, testInstant)
	boss := model.NewWorker("boss@example.com", "Boss", model.RoleAssigner, testInstant)
	_, _, handler := newTestServer(ben, amy, boss)

	rec := doRequest(t, handler, "GET", "/v1/workers/ben@example.com?actor=amy@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[workerView](t, rec)
	if got.Counter != nil {
		t.Errorf("counter = %d, visible to underwriter", *got.Counter)
	}

	rec = doRequest(t, handler, "GET", "/v1/workers/ben@example.com?actor=boss@example.com", "")
	got = decodeBody[workerView](t, rec)
	if got.Counter == nil || *got.Counter != 7 {
		t.Errorf("counter = %v, want 7 for assigner", got.Counter)
	}
}

func TestHandleListWorkers_CounterRedaction(t *testing.T) {
	ben := model.NewWorker("ben@example.com", "Ben", model.RoleUnderwriter, testInstant)
	ben.Counter = 7
	amy := model.NewWorker("amy@example.com", "Amy", model.RoleUnderwriter, testInstant)
	boss := model.NewWorker("boss@example.com", "Boss", model.RoleAssigner, testInstant)
	_, _, handler := newTestServer(ben, amy, boss)

	rec := doRequest(t, handler, "GET", "/v1/workers?actor=amy@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	out := decodeBody[map[string][]workerView](t, rec)
	for _, wv := range out["workers"] {
		if wv.Counter != nil {
			t.Errorf("worker %s: counter visible to underwriter", wv.ID)
		}
	}

	rec = doRequest(t, handler, "GET", "/v1/workers", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status without actor = %d, want 400", rec.Code)
	}
}

func TestHandleSetStatus_ResponseRedactsCounter(t *testing.T) {
	amy := model.NewWorker("amy@example.com", "Amy", model.RoleUnderwriter, testInstant)
	amy.Counter = 7
	boss := model.NewWorker("boss@example.com", "Boss", model.RoleAssigner, testInstant)
	_, _, handler := newTestServer(amy, boss)

	rec := doRequest(t, handler, "POST", "/v1/workers/amy@example.com/status",
		`{"actor":"amy@example.com","status":"green"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[workerView](t, rec)
	if got.Counter != nil {
		t.Errorf("counter = %d in mutation response for underwriter", *got.Counter)
	}
}

func TestHandleListAudit(t *testing.T) {
	_, _, handler := newTestServer()
	doRequest(t, handler, "POST", "/v1/workers/amy@example.com/status",
		`{"actor":"amy@example.com","status":"green"}`)
	doRequest(t, handler, "POST", "/v1/workers/ben@example.com/status",
		`{"actor":"ben@example.com","status":"red"}`)

	rec := doRequest(t, handler, "GET", "/v1/audit?worker=amy@example.com&actor=boss@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	out := decodeBody[map[string][]*model.Event](t, rec)
	if len(out["events"]) != 1 {
		t.Fatalf("got %d events, want 1", len(out["events"]))
	}
	if out["events"][0].WorkerID != "amy@example.com" {
		t.Errorf("event worker = %q", out["events"][0].WorkerID)
	}

	rec = doRequest(t, handler, "GET", "/v1/audit", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status without actor = %d, want 400", rec.Code)
	}
}

func TestHandleListAudit_CounterPayloadRedaction(t *testing.T) {
	_, _, handler := newTestServer()
	doRequest(t, handler, "POST", "/v1/workers/ben@example.com/counter",
		`{"actor":"boss@example.com","delta":5}`)

	rec := doRequest(t, handler, "GET", "/v1/audit?actor=amy@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	out := decodeBody[map[string][]*model.Event](t, rec)
	if len(out["events"]) != 1 {
		t.Fatalf("got %d events, want 1", len(out["events"]))
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(out["events"][0].Payload, &payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	for _, f := range []string{"counter", "previous", "delta"} {
		if _, ok := payload[f]; ok {
			t.Errorf("audit payload carries %q for underwriter", f)
		}
	}

	// The same event keeps its counter fields for an assigner.
	rec = doRequest(t, handler, "GET", "/v1/audit?actor=boss@example.com", "")
	out = decodeBody[map[string][]*model.Event](t, rec)
	if err := json.Unmarshal(out["events"][0].Payload, &payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if string(payload["counter"]) != "5" {
		t.Errorf("counter = %s, want 5 for assigner", payload["counter"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _, _ := newTestServer()
	handler := srv.NewHTTPHandler("sekrit")

	rec := doRequest(t, handler, "GET", "/v1/board?actor=boss@example.com", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest("GET", "/v1/board?actor=boss@example.com", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	recOK := httptest.NewRecorder()
	handler.ServeHTTP(recOK, req)
	if recOK.Code != http.StatusOK {
		t.Fatalf("status with token = %d, want 200", recOK.Code)
	}

	// Health is exempt.
	rec = doRequest(t, handler, "GET", "/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
}
