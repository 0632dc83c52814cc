package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/v1/schedules/generate", "POST", 200, 5*time.Millisecond)
	m.RecordRequest("/api/v1/schedules/generate", "POST", 200, 5*time.Millisecond)
	m.RecordError("/api/v1/schedules/generate", "POST", "VALIDATION_FAILED")
	m.RecordScheduleRun("generate", 4)
	m.RecordViolations(3)
	m.RecordViolations(-1)

	snap := m.Snapshot()
	if snap.Requests["/api/v1/schedules/generate|POST|200"] != 2 {
		t.Fatalf("requests: %v", snap.Requests)
	}
	if snap.Errors["/api/v1/schedules/generate|POST|VALIDATION_FAILED"] != 1 {
		t.Fatalf("errors: %v", snap.Errors)
	}
	if snap.ScheduleRuns["generate"] != 1 || snap.BreaksPlaced != 4 {
		t.Fatalf("runs: %v breaks: %d", snap.ScheduleRuns, snap.BreaksPlaced)
	}
	if snap.Violations != 3 {
		t.Fatalf("violations: %d", snap.Violations)
	}
	if snap.RequestLatencyMS != 10 {
		t.Fatalf("latency: %d", snap.RequestLatencyMS)
	}

	snap.Requests["x"] = 1
	if _, ok := m.Snapshot().Requests["x"]; ok {
		t.Fatalf("snapshot should not alias internal state")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordScheduleRun("generate", 1)
	if snap := m.Snapshot(); snap.Violations != 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRequestLoggerRecordsRoute(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if got := m.Snapshot().Requests["/items/:id|GET|204"]; got != 1 {
		t.Fatalf("expected route key recorded, got %v", m.Snapshot().Requests)
	}
}
