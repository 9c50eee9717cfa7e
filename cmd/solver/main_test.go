package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"quizsolver/internal/app"
	"quizsolver/internal/cache"
	"quizsolver/internal/consensus"
	"quizsolver/internal/dispatch"
	"quizsolver/internal/match"
	"quizsolver/internal/provider"
	"quizsolver/internal/queue"
	"quizsolver/internal/solver"
	"quizsolver/internal/store"
)

func newTestDeps(st store.Store, q queue.Queue) app.Deps {
	return app.Deps{
		Store: st,
		Queue: q,
		Log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newTestSolver(deps app.Deps, clients []provider.Client) *solver.Solver {
	c := new(cache.MockCache)
	c.On("GetResult", mock.Anything, mock.Anything).Return(nil, nil)
	c.On("SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return solver.New(deps.Log, dispatch.New(clients, time.Second),
		consensus.NewVoter(0), c, deps.Store, time.Minute)
}

func answering(name, model, answer string) *provider.MockClient {
	m := &provider.MockClient{ProviderName: name, ModelID: model}
	m.On("Ask", mock.Anything, mock.Anything).Return(answer, nil)
	return m
}

func postJSON(handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/solve", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestSolveHandler(t *testing.T) {
	st := new(store.MockStore)
	st.On("SaveRecord", mock.Anything, mock.Anything).Return(store.Record{ID: uuid.New()}, nil)
	deps := newTestDeps(st, nil)
	s := newTestSolver(deps, []provider.Client{
		answering("perplexity", "sonar", "Paris"),
		answering("groq", "llama", "paris"),
	})

	w := postJSON(solveHandler(deps, s), solveRequest{
		Text:  "What is the capital of France?",
		Shape: "free_text",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var outcome solver.Outcome
	if err := json.NewDecoder(w.Body).Decode(&outcome); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if outcome.Answer != "paris" {
		t.Errorf("expected answer 'paris', got %q", outcome.Answer)
	}
	if outcome.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", outcome.Confidence)
	}
}

func TestSolveHandlerValidation(t *testing.T) {
	deps := newTestDeps(new(store.MockStore), nil)
	s := newTestSolver(deps, nil)

	tests := []struct {
		name string
		req  solveRequest
	}{
		{"missing text", solveRequest{Shape: "free_text"}},
		{"short text", solveRequest{Text: "x", Shape: "free_text"}},
		{"bad shape", solveRequest{Text: "Capital of France?", Shape: "essay"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(solveHandler(deps, s), tt.req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestSolveHandlerInvalidJSON(t *testing.T) {
	deps := newTestDeps(new(store.MockStore), nil)
	s := newTestSolver(deps, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/solve", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	solveHandler(deps, s)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSolveHandlerAllModelsDown(t *testing.T) {
	broken := &provider.MockClient{ProviderName: "perplexity", ModelID: "sonar"}
	broken.On("Ask", mock.Anything, mock.Anything).Return("", errors.New("503"))

	st := new(store.MockStore)
	st.On("SaveRecord", mock.Anything, mock.Anything).Return(store.Record{ID: uuid.New()}, nil)
	deps := newTestDeps(st, nil)
	s := newTestSolver(deps, []provider.Client{broken})

	w := postJSON(solveHandler(deps, s), solveRequest{
		Text:  "What is the capital of France?",
		Shape: "free_text",
	})

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}
}

func TestSolveErrorStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{solver.ErrBadQuestion, http.StatusBadRequest},
		{dispatch.ErrAllFailed, http.StatusBadGateway},
		{consensus.ErrNoConsensus, http.StatusBadGateway},
		{match.ErrNoMatch, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := solveErrorStatus(tt.err); got != tt.expected {
			t.Errorf("solveErrorStatus(%v) = %d, want %d", tt.err, got, tt.expected)
		}
	}
}

func TestEnqueueHandler(t *testing.T) {
	q := new(queue.MockQueue)
	q.On("Enqueue", mock.Anything, mock.MatchedBy(func(task queue.Task) bool {
		return task.Type == queue.TaskTypeSolve && len(task.Payload) > 0
	})).Return(nil).Once()
	deps := newTestDeps(new(store.MockStore), q)

	w := postJSON(enqueueHandler(deps), solveRequest{
		Text:  "What is the capital of France?",
		Shape: "free_text",
	})

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "queued" {
		t.Errorf("expected status 'queued', got %q", resp["status"])
	}
	if _, err := uuid.Parse(resp["task_id"]); err != nil {
		t.Errorf("expected valid task_id, got %q", resp["task_id"])
	}
	q.AssertExpectations(t)
}

func TestEnqueueHandlerQueueDown(t *testing.T) {
	q := new(queue.MockQueue)
	q.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("nats down"))
	deps := newTestDeps(new(store.MockStore), q)

	w := postJSON(enqueueHandler(deps), solveRequest{
		Text:  "What is the capital of France?",
		Shape: "free_text",
	})

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
	q.AssertNumberOfCalls(t, "Enqueue", 3)
}

func TestRecordHandler(t *testing.T) {
	recID := uuid.New()
	st := new(store.MockStore)
	st.On("GetRecord", mock.Anything, recID).Return(store.Record{
		ID:         recID,
		Question:   "Capital of France?",
		Answer:     "paris",
		Confidence: 0.75,
		Solved:     true,
		CreatedAt:  time.Now(),
	}, nil).Once()
	deps := newTestDeps(st, nil)

	r := chi.NewRouter()
	r.Get("/api/records/{id}", recordHandler(deps))

	req := httptest.NewRequest(http.MethodGet, "/api/records/"+recID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["answer"] != "paris" {
		t.Errorf("expected answer 'paris', got %v", resp["answer"])
	}
	if resp["solved"] != true {
		t.Errorf("expected solved=true, got %v", resp["solved"])
	}
	st.AssertExpectations(t)
}

func TestRecordHandlerNotFound(t *testing.T) {
	recID := uuid.New()
	st := new(store.MockStore)
	st.On("GetRecord", mock.Anything, recID).Return(store.Record{}, store.ErrRecordNotFound)
	deps := newTestDeps(st, nil)

	r := chi.NewRouter()
	r.Get("/api/records/{id}", recordHandler(deps))

	req := httptest.NewRequest(http.MethodGet, "/api/records/"+recID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestRecordHandlerBadID(t *testing.T) {
	deps := newTestDeps(new(store.MockStore), nil)

	r := chi.NewRouter()
	r.Get("/api/records/{id}", recordHandler(deps))

	req := httptest.NewRequest(http.MethodGet, "/api/records/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestStatsHandler(t *testing.T) {
	st := new(store.MockStore)
	st.On("Stats", mock.Anything).Return(store.Stats{Solved: 10, Failed: 2, AvgConfidence: 0.81}, nil).Once()
	deps := newTestDeps(st, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	statsHandler(deps)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var stats store.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.Solved != 10 || stats.Failed != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
