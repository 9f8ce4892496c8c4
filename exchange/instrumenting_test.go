package exchange

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentingService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewInstrumentingService(reg, newScenario(t))
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = s.Convert(ctx, 10, "USD", "CNY")
	_, _ = s.Convert(ctx, 10, "EUR", "CNY")
	_ = s.UpdateRatesAutomatically(ctx)

	is := s.(*instrumentingService)
	assert.Equal(t, 1.0, testutil.ToFloat64(is.requests.WithLabelValues("convert", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(is.requests.WithLabelValues("convert", "precondition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(is.requests.WithLabelValues("update_rates_automatically", "unsupported")))

	_, err = NewInstrumentingService(reg, newScenario(t))
	assert.Error(t, err, "collectors are already registered")
}
