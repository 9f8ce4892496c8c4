package exchange

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"go-currency-converter/store"
)

func TestLoggingService_Convert(t *testing.T) {
	var buf bytes.Buffer
	s := NewLoggingService(log.NewLogfmtLogger(&buf), newScenario(t))

	_, err := s.Convert(context.Background(), 10, "USD", "CNY")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "method=convert")
	assert.Contains(t, buf.String(), "from=USD")
	assert.Contains(t, buf.String(), "err=null")
}

func TestLoggingService_UpdateUnsupported(t *testing.T) {
	var buf bytes.Buffer
	s := NewLoggingService(log.NewLogfmtLogger(&buf), NewService(store.New()))

	err := s.UpdateRatesAutomatically(context.Background())

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "method=update_rates_automatically")
	assert.Contains(t, buf.String(), "unsupported operation")
	assert.Equal(t, "Supported currencies:", s.String())
}
