package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.DocumentSubmitted("Stock Entry", "Manufacture")
	r.DocumentSubmitted("Stock Entry", "Manufacture")
	r.EntryGenerated("consumption")
	r.BatchesAutofilled(3)
	r.BatchesAutofilled(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.submitted.WithLabelValues("Stock Entry", "Manufacture")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.generated.WithLabelValues("consumption")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.autofill))
}

func TestNewRecorder_RegistroDuplicado(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}
