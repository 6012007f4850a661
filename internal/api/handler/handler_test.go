package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Rrens/mock-interview/internal/api/handler"
	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/Rrens/mock-interview/internal/llm"
	"github.com/Rrens/mock-interview/internal/llm/openai"
	"github.com/Rrens/mock-interview/internal/repository/file"
	"github.com/Rrens/mock-interview/internal/repository/memory"
	"github.com/Rrens/mock-interview/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator returns queued replies in order, repeating the last one
type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, messages []domain.Message) (llm.Completion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.replies) == 0 {
		return llm.Completion{Content: llm.FallbackResponse, Fallback: true}, llm.ErrBackendFailure
	}
	reply := g.replies[0]
	if len(g.replies) > 1 {
		g.replies = g.replies[1:]
	}
	return llm.Completion{Content: reply}, nil
}

type testServer struct {
	router http.Handler
	logDir string
}

func newTestServer(t *testing.T, legacy bool, replies ...string) *testServer {
	t.Helper()
	logDir := t.TempDir()
	repo := memory.NewInterviewRepository()
	gen := &scriptedGenerator{replies: replies}

	h := handler.NewInterviewHandler(
		service.NewInterviewService(repo, gen, 5),
		service.NewExportService(repo, file.NewInterviewLogArchive(logDir)),
		legacy,
	)

	r := chi.NewRouter()
	r.Post("/start", h.Start)
	r.Post("/answer", h.Answer)
	r.Get("/results/{session_id}", h.Results)
	r.Post("/save_interview/{session_id}", h.SaveInterview)
	r.Get("/status", h.Status)
	r.Post("/reset", h.Reset)

	return &testServer{router: r, logDir: logDir}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return rec.Code, out
}

func (s *testServer) start(t *testing.T, maxQuestions int) string {
	t.Helper()
	code, body := s.do(t, http.MethodPost, "/start", map[string]any{
		"company": "Acme", "role": "SRE", "interview_type": "technical", "max_questions": maxQuestions,
	})
	require.Equal(t, http.StatusOK, code, body)
	return body["session_id"].(string)
}

func TestInterviewHandler_Start(t *testing.T) {
	srv := newTestServer(t, false, "What is an SLO?")

	code, body := srv.do(t, http.MethodPost, "/start", map[string]any{
		"company": "Acme", "role": "SRE", "interview_type": "technical", "candidate_name": "Sam",
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "What is an SLO?", body["question"])
	assert.Equal(t, 1.0, body["question_number"])
	assert.Equal(t, 5.0, body["total_questions"])
	assert.NotEmpty(t, body["session_id"])
	assert.NotContains(t, body, "data", "responses are not wrapped")
}

func TestInterviewHandler_Start_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  any
		field string
		want  string
	}{
		{"missing company", map[string]any{"role": "SRE", "interview_type": "technical"}, "company", "field is required"},
		{"zero questions", map[string]any{"company": "A", "role": "B", "interview_type": "C", "max_questions": 0}, "max_questions", "must be at least 1"},
		{"too many questions", map[string]any{"company": "A", "role": "B", "interview_type": "C", "max_questions": 21}, "max_questions", "must be at most 20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, false, "Q")

			code, body := srv.do(t, http.MethodPost, "/start", tt.body)

			assert.Equal(t, http.StatusBadRequest, code)
			fields, ok := body["error"].(map[string]any)
			require.True(t, ok, body)
			assert.Equal(t, tt.want, fields[tt.field])
		})
	}
}

func TestInterviewHandler_Start_InvalidBody(t *testing.T) {
	srv := newTestServer(t, false, "Q")
	req := httptest.NewRequest(http.MethodPost, "/start", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
}

func TestInterviewHandler_FullInterview(t *testing.T) {
	srv := newTestServer(t, false,
		"Q1?", "Score: 9\nFeedback: Excellent", "Q2?", "Score: 7\nFeedback: Good",
	)
	id := srv.start(t, 2)

	code, body := srv.do(t, http.MethodPost, "/answer", map[string]any{"session_id": id, "answer": "x"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Q2?", body["question"])
	assert.Equal(t, false, body["interview_complete"])
	assert.Equal(t, 9.0, body["current_score"])
	assert.Equal(t, "Excellent", body["current_feedback"])
	assert.NotContains(t, body, "final_results")

	code, body = srv.do(t, http.MethodGet, "/results/"+id, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Interview not completed yet", body["error"])

	code, body = srv.do(t, http.MethodPost, "/answer", map[string]any{"session_id": id, "answer": "y"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["interview_complete"])
	assert.Equal(t, "Thank you for completing the interview! Your average score is 8.0/10.", body["question"])
	assert.Equal(t, map[string]any{
		"total_score": 16.0, "average_score": 8.0, "questions_answered": 2.0,
	}, body["final_results"])

	code, body = srv.do(t, http.MethodPost, "/answer", map[string]any{"session_id": id, "answer": "z"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Interview already completed", body["error"])

	code, body = srv.do(t, http.MethodGet, "/results/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 16.0, body["total_score"])
	assert.Equal(t, 20.0, body["max_possible_score"])
	assert.Equal(t, 80.0, body["percentage"])
	assert.Len(t, body["detailed_results"], 2)
	assert.Equal(t, "Acme", body["context"].(map[string]any)["company"])

	code, body = srv.do(t, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"active_sessions": 0.0, "total_sessions": 1.0}, body)
}

func TestInterviewHandler_UnknownSession(t *testing.T) {
	srv := newTestServer(t, false, "Q")

	code, body := srv.do(t, http.MethodPost, "/answer", map[string]any{"session_id": "nope", "answer": "x"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, map[string]any{"error": "Invalid session ID"}, body)

	code, body = srv.do(t, http.MethodGet, "/results/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, map[string]any{"error": "Session not found"}, body)

	code, body = srv.do(t, http.MethodPost, "/save_interview/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, map[string]any{"error": "Session not found"}, body)
}

func TestInterviewHandler_LegacyStatusOK(t *testing.T) {
	srv := newTestServer(t, true, "Q")

	code, body := srv.do(t, http.MethodPost, "/answer", map[string]any{"session_id": "nope", "answer": "x"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Invalid session ID", body["error"])

	id := srv.start(t, 3)
	code, body = srv.do(t, http.MethodGet, "/results/"+id, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Interview not completed yet", body["error"])
}

func TestInterviewHandler_SaveInterview(t *testing.T) {
	srv := newTestServer(t, false, "Q1?")
	id := srv.start(t, 3)

	code, body := srv.do(t, http.MethodPost, "/save_interview/"+id, nil)
	require.Equal(t, http.StatusOK, code)

	msg := body["message"].(string)
	prefix := "Interview log saved as interview_log_" + id[:8] + "_"
	require.True(t, strings.HasPrefix(msg, prefix), msg)

	name := strings.TrimPrefix(msg, "Interview log saved as ")
	data, err := os.ReadFile(filepath.Join(srv.logDir, name))
	require.NoError(t, err)

	var saved map[string]any
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, id, saved["session_id"])
	assert.Nil(t, saved["end_time"])
	assert.Equal(t, 0.0, saved["average_score"])
}

type failingArchive struct{}

func (failingArchive) Save(ctx context.Context, entry *domain.InterviewLog) (string, error) {
	return "", errors.New("disk full")
}

func TestInterviewHandler_SaveInterview_Failure(t *testing.T) {
	repo := memory.NewInterviewRepository()
	svc := service.NewInterviewService(repo, &scriptedGenerator{replies: []string{"Q"}}, 5)
	h := handler.NewInterviewHandler(svc, service.NewExportService(repo, failingArchive{}), false)

	start, err := svc.Start(context.Background(), domain.StartRequest{Company: "A", Role: "B", InterviewType: "C"})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Post("/save_interview/{session_id}", h.SaveInterview)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/save_interview/"+start.SessionID.String(), nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to save log: disk full"}`, rec.Body.String())
}

func TestInterviewHandler_Reset(t *testing.T) {
	srv := newTestServer(t, false, "Q")
	id := srv.start(t, 2)

	code, body := srv.do(t, http.MethodPost, "/reset", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"status": "All sessions reset"}, body)

	code, _ = srv.do(t, http.MethodPost, "/answer", map[string]any{"session_id": id, "answer": "x"})
	assert.Equal(t, http.StatusNotFound, code)

	_, body = srv.do(t, http.MethodGet, "/status", nil)
	assert.Equal(t, 0.0, body["total_sessions"])
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func TestReadyCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.ReadyCheck(map[string]handler.Pinger{"redis": stubPinger{}})(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"redis":"ok"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ReadyCheck(map[string]handler.Pinger{
		"redis":    stubPinger{},
		"database": stubPinger{err: errors.New("refused")},
	})(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not ready","checks":{"redis":"ok","database":"unavailable"}}`, rec.Body.String())
}

func TestListLLMProviders(t *testing.T) {
	router := llm.NewRouter("lmstudio")
	router.RegisterProvider(openai.NewLocalProvider("lmstudio", "http://127.0.0.1:1234/v1", "mistral-7b-instruct-v0.3"))

	rec := httptest.NewRecorder()
	handler.ListLLMProviders(router)(rec, httptest.NewRequest(http.MethodGet, "/llm-providers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Providers       []llm.ProviderInfo `json:"providers"`
		DefaultProvider string             `json:"default_provider"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "lmstudio", body.DefaultProvider)
	require.Len(t, body.Providers, 1)
	assert.True(t, body.Providers[0].Default)
}
