package catalog

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsValidations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	c := newTestCatalog(t, WithMetrics(m))

	c.ValidateEndpointProperties("log:foo")
	c.ValidateEndpointProperties("log:foo?levl=INFO&showAll=x")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.defects.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.defects.WithLabelValues("invalidBoolean")))
}

func TestMetricsRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.cacheHit(NamespaceComponent)
		m.cacheMiss(NamespaceComponent)
		m.modelLoaded(NamespaceComponent)
		m.loadFailed(NamespaceComponent)
		m.validated(newResult("x"))
	})

	unregistered, err := NewMetrics(nil)
	require.NoError(t, err)
	unregistered.cacheHit(NamespaceLanguage)
	assert.Equal(t, 1.0, testutil.ToFloat64(unregistered.cacheHits.WithLabelValues("language")))
}
