package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"wheel_lottery_service/internal/wheel_service/wheel"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorSpinLifecycle(t *testing.T) {
	c := NewCollector()
	ramen := wheel.Option{ID: 1, Name: "拉麵"}

	c.SpinStarted(&wheel.SpinTicket{
		Option:   ramen,
		Duration: 4200 * time.Millisecond,
		Weights: []wheel.WeightedOption{
			{Option: ramen, CurrentWeight: 2},
			{Option: wheel.Option{ID: 2, Name: "便當"}, CurrentWeight: 1},
		},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.spinsStarted.WithLabelValues("拉麵")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.spinning))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.optionWeight.WithLabelValues("拉麵")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.optionWeight.WithLabelValues("便當")))

	c.SpinCompleted(wheel.SpinOutcome{Option: ramen, Result: wheel.Result{Mismatch: true}})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.spinsWon.WithLabelValues("拉麵")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.mismatches))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.spinning))
}

func TestCollectorRejectedAndReset(t *testing.T) {
	c := NewCollector()

	c.SpinRejected(RejectSpinning)
	c.SpinRejected(RejectSpinning)
	c.SpinRejected(RejectRateLimited)
	c.SetSubscribers(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.spinsRejected.WithLabelValues(RejectSpinning)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.spinsRejected.WithLabelValues(RejectRateLimited)))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.subscribers))

	c.spinning.Set(1)
	c.SpinReset()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.spinning))
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector()
	c.SpinRejected(RejectError)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `wheel_spin_rejected_total{reason="error"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
