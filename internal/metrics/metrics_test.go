package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordFetch(t *testing.T) {
	successBefore := testutil.ToFloat64(FetchTotal.WithLabelValues("test_nop", ResultSuccess))
	failedBefore := testutil.ToFloat64(FetchTotal.WithLabelValues("test_nop", ResultFailed))
	kindBefore := testutil.ToFloat64(FetchFailures.WithLabelValues("test_nop", "envelope"))

	RecordFetch("test_nop", 120*time.Millisecond, "")
	RecordFetch("test_nop", 30*time.Millisecond, "envelope")

	if got := testutil.ToFloat64(FetchTotal.WithLabelValues("test_nop", ResultSuccess)) - successBefore; got != 1 {
		t.Errorf("success: ожидалось +1, получено %v", got)
	}
	if got := testutil.ToFloat64(FetchTotal.WithLabelValues("test_nop", ResultFailed)) - failedBefore; got != 1 {
		t.Errorf("failed: ожидалось +1, получено %v", got)
	}
	if got := testutil.ToFloat64(FetchFailures.WithLabelValues("test_nop", "envelope")) - kindBefore; got != 1 {
		t.Errorf("envelope: ожидалось +1, получено %v", got)
	}
}

func TestRecordCycle(t *testing.T) {
	before := testutil.ToFloat64(CyclesTotal.WithLabelValues(TriggerManual, "disconnected"))
	finished := time.Unix(1700000000, 0)

	RecordCycle(TriggerManual, false, 2*time.Second, finished)

	if got := testutil.ToFloat64(CyclesTotal.WithLabelValues(TriggerManual, "disconnected")) - before; got != 1 {
		t.Errorf("cycles: ожидалось +1, получено %v", got)
	}
	if got := testutil.ToFloat64(BackendConnectivity); got != 0 {
		t.Errorf("connectivity = %v, want 0", got)
	}
	if got := testutil.ToFloat64(LastUpdate); got != 1700000000 {
		t.Errorf("last update = %v, want 1700000000", got)
	}

	RecordCycle(TriggerTimer, true, time.Second, finished.Add(time.Second))
	if got := testutil.ToFloat64(BackendConnectivity); got != 1 {
		t.Errorf("connectivity = %v, want 1", got)
	}
}

func TestRefreshCounters(t *testing.T) {
	skipped := testutil.ToFloat64(CyclesSkipped)
	joined := testutil.ToFloat64(CyclesJoined)
	throttled := testutil.ToFloat64(ManualThrottled)

	RecordSkippedTick()
	RecordJoinedRefresh()
	RecordJoinedRefresh()
	RecordThrottled()

	if got := testutil.ToFloat64(CyclesSkipped) - skipped; got != 1 {
		t.Errorf("skipped: ожидалось +1, получено %v", got)
	}
	if got := testutil.ToFloat64(CyclesJoined) - joined; got != 2 {
		t.Errorf("joined: ожидалось +2, получено %v", got)
	}
	if got := testutil.ToFloat64(ManualThrottled) - throttled; got != 1 {
		t.Errorf("throttled: ожидалось +1, получено %v", got)
	}
}

func TestSetAutoRefresh(t *testing.T) {
	SetAutoRefresh(true)
	if got := testutil.ToFloat64(AutoRefreshEnabled); got != 1 {
		t.Errorf("enabled = %v, want 1", got)
	}
	SetAutoRefresh(false)
	if got := testutil.ToFloat64(AutoRefreshEnabled); got != 0 {
		t.Errorf("enabled = %v, want 0", got)
	}
}

func TestUpdateDashboard(t *testing.T) {
	UpdateDashboard(-1500.5, 42, map[string]int{"EXTREME": 2, "HIGH": 5})

	if got := testutil.ToFloat64(NetPnl); got != -1500.5 {
		t.Errorf("net pnl = %v, want -1500.5", got)
	}
	if got := testutil.ToFloat64(OpenPositions); got != 42 {
		t.Errorf("open positions = %v, want 42", got)
	}
	if got := testutil.ToFloat64(RiskClients.WithLabelValues("HIGH")); got != 5 {
		t.Errorf("HIGH = %v, want 5", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "2xx"},
		{204, "2xx"},
		{304, "3xx"},
		{404, "4xx"},
		{429, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
		{100, "1xx"},
	}

	for _, tt := range tests {
		if got := statusClass(tt.status); got != tt.want {
			t.Errorf("statusClass(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/v1/status", "2xx"))
	RecordHTTPRequest("GET", "/api/v1/status", 200, 3*time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/v1/status", "2xx")) - before; got != 1 {
		t.Errorf("requests: ожидалось +1, получено %v", got)
	}
}
