package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danmuck/chessjudge/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("judged", "GET", "/health", 200, 12*time.Millisecond)
	RecordExchange("ok", 40*time.Millisecond)

	before := runCount(t, "validation_error")
	RecordRun("validation_error", -1)
	RecordRun("accepted", 42)
	if got := runCount(t, "validation_error"); got != before+1 {
		t.Fatalf("expected validation_error counter %v, got %v", before+1, got)
	}

	testlog.Logf("observability/metrics: registration idempotent and recording paths executed")
}

func runCount(t *testing.T, verdict string) float64 {
	t.Helper()
	var m dto.Metric
	if err := runs.WithLabelValues(verdict).Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRequestIDMiddleware(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RequestLogger(ComponentLogger("test")), RequestMetricsMiddleware("test"))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := rec.Header().Get(RequestIDHeader)
	if id == "" || rec.Body.String() != id {
		t.Fatalf("expected generated request id echoed, header=%q body=%q", id, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get(RequestIDHeader) != "fixed-id" {
		t.Fatalf("expected caller request id to be kept, got %q", rec.Header().Get(RequestIDHeader))
	}
}
