package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danmuck/locuslink/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	logger := testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("hostsim", "GET", "/health", 200, 12*time.Millisecond)
	RecordBridgeAttempt("/query", 503, true)

	before := testutil.ToFloat64(operations.WithLabelValues("get_track", "ok"))
	var m ClientMetrics
	m.ObserveOperation("get_track", "ok", 3*time.Millisecond)
	m.CapabilityRejected("get_track", 390)
	if got := testutil.ToFloat64(operations.WithLabelValues("get_track", "ok")); got != before+1 {
		t.Fatalf("expected operation counter to advance, got %v", got)
	}
	if got := testutil.ToFloat64(capabilityRejections.WithLabelValues("get_track", "390")); got < 1 {
		t.Fatalf("expected capability rejection recorded")
	}
	logger.Debug().Msg("observability/metrics: registration idempotent and recording paths executed")
}

func TestMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(testlog.Start(t)), RequestMetricsMiddleware("test"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := testutil.ToFloat64(httpRequests.WithLabelValues("test", "GET", "/ping", "204")); got != 1 {
		t.Fatalf("expected one recorded request, got %v", got)
	}
}
