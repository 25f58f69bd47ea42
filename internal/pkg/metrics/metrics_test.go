package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequestCountsByMethodAndStatus(t *testing.T) {
	m := KillBill()
	before := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "404"))

	m.ObserveRequest("GET", 404, 15*time.Millisecond)
	m.ObserveRequest("GET", 404, 5*time.Millisecond)

	after := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "404"))
	assert.Equal(t, before+2, after)
}
