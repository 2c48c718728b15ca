package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/chessjudge/internal/judge"
	"github.com/danmuck/chessjudge/internal/protocol"
	"github.com/danmuck/chessjudge/internal/puzzle"
	"github.com/danmuck/chessjudge/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
)

type echoCandidate struct{}

func (echoCandidate) Exchange(_ context.Context, tc puzzle.TestCase) (protocol.Response, error) {
	return identityResponse(tc), nil
}

func (echoCandidate) Close() error { return nil }

func identityResponse(tc puzzle.TestCase) protocol.Response {
	resp := make(protocol.Response, 0, tc.ResponseLen())
	for _, row := range tc.Grid {
		for _, s := range row {
			resp = append(resp, byte(s))
		}
	}
	for i := 0; i < tc.Cells(); i++ {
		resp = append(resp, '.')
	}
	return resp
}

func newTestServer(launch judge.Launcher) *Server {
	gin.SetMode(gin.TestMode)
	s := New(Options{Name: "judge-test", Launch: launch, MaxConcurrentRuns: 1})
	s.RegisterRoutes()
	return s
}

func serve(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)
	return rr
}

func decodeOutcome(t *testing.T, rr *httptest.ResponseRecorder) judge.Outcome {
	t.Helper()
	var out judge.Outcome
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode outcome: %v body=%s", err, rr.Body.String())
	}
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(nil)

	rr := serve(t, s, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}

	rr = serve(t, s, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "chessjudge_http_requests_total") {
		t.Fatalf("metrics endpoint missing http counters: %d", rr.Code)
	}
}

func TestGetCase(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(nil)

	rr := serve(t, s, http.MethodGet, "/cases/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	var view CaseView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Seed != 1 || view.N != 8 || view.C != 4 || len(view.Grid) != 8 {
		t.Fatalf("unexpected case view: %+v", view)
	}
	if view.Grid[1] != "#....###" || view.Points["Queen"] != 31 {
		t.Fatalf("unexpected seed 1 contents: %+v", view)
	}

	rr = serve(t, s, http.MethodGet, "/cases/1?format=wire", "")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Body.String(), "8\n4\n.\n") {
		t.Fatalf("unexpected wire case: %q", rr.Body.String())
	}

	rr = serve(t, s, http.MethodGet, "/cases/not-a-seed", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad seed, got %d", rr.Code)
	}
}

func TestPostSubmission(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(nil)

	rr := serve(t, s, http.MethodGet, "/cases/1?format=wire", "")
	tc, err := protocol.ReadRequest(strings.NewReader(rr.Body.String()))
	if err != nil {
		t.Fatalf("read wire case: %v", err)
	}

	var body strings.Builder
	if err := protocol.WriteResponse(&body, identityResponse(tc)); err != nil {
		t.Fatalf("write response: %v", err)
	}
	out := decodeOutcome(t, serve(t, s, http.MethodPost, "/cases/1/submissions", body.String()))
	if out.Verdict != judge.Accepted || out.Score != 0 || len(out.Scores) != 4 {
		t.Fatalf("expected accepted identity, got %+v", out)
	}

	attack := identityResponse(tc)
	attack[0], attack[tc.Cells()] = 'R', '0'
	attack[7], attack[tc.Cells()+7] = 'R', '1'
	body.Reset()
	protocol.WriteResponse(&body, attack)
	out = decodeOutcome(t, serve(t, s, http.MethodPost, "/cases/1/submissions", body.String()))
	if out.Verdict != judge.ValidationError || out.Score != judge.FatalScore {
		t.Fatalf("expected validation error, got %+v", out)
	}
	if out.Diagnostic != "Rook at (0,0) attacks piece at (0,7)" {
		t.Fatalf("unexpected diagnostic %q", out.Diagnostic)
	}

	out = decodeOutcome(t, serve(t, s, http.MethodPost, "/cases/1/submissions", "garbage\n"))
	if out.Verdict != judge.ProtocolError {
		t.Fatalf("expected protocol error, got %+v", out)
	}
}

func TestPostRun(t *testing.T) {
	testlog.Start(t)
	off := newTestServer(nil)
	if rr := serve(t, off, http.MethodPost, "/runs", `{"seed":1}`); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without candidate, got %d", rr.Code)
	}

	launch := func(context.Context) (judge.Exchanger, error) { return echoCandidate{}, nil }
	s := newTestServer(launch)

	if rr := serve(t, s, http.MethodPost, "/runs", `{}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing seed, got %d", rr.Code)
	}

	rr := serve(t, s, http.MethodPost, "/runs", `{"seed":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	out := decodeOutcome(t, rr)
	if out.Verdict != judge.Accepted || out.Seed != 2 || out.RunID == "" {
		t.Fatalf("unexpected run outcome: %+v", out)
	}
	if len(out.Scores) != 7 {
		t.Fatalf("seed 2 has 7 colors, got scores %v", out.Scores)
	}
}

func TestPostRunRejectsWhenBusy(t *testing.T) {
	testlog.Start(t)
	launch := func(context.Context) (judge.Exchanger, error) { return echoCandidate{}, nil }
	s := newTestServer(launch)
	if !s.runs.TryAcquire(1) {
		t.Fatalf("fresh server has no free slot")
	}
	defer s.runs.Release(1)

	if rr := serve(t, s, http.MethodPost, "/runs", `{"seed":1}`); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 while busy, got %d", rr.Code)
	}
}
