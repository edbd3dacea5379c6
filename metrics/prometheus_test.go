package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDecryptCounterByResult(t *testing.T) {
	InitMetrics()
	InitMetrics() // second call must not panic on duplicate registration

	before := testutil.ToFloat64(FastEncryptDecryptTotal.WithLabelValues("conflict"))
	FastEncryptDecryptTotal.WithLabelValues("conflict").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(FastEncryptDecryptTotal.WithLabelValues("conflict")))
}
