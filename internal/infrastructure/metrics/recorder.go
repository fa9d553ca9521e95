// Package metrics expone contadores de negocio en Prometheus.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder contadores de documentos. Implementa los puertos Recorder de stock, manufacturing y reconciliation.
type Recorder struct {
	submitted *prometheus.CounterVec
	generated *prometheus.CounterVec
	autofill  prometheus.Counter
}

// NewRecorder registra los contadores en reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		submitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_submitted_total",
				Help: "Documentos confirmados por doctype y tipo de Stock Entry.",
			},
			[]string{"doctype", "stock_entry_type"},
		),
		generated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tinting_entries_generated_total",
				Help: "Stock Entries generados al confirmar un Manufacture tinturado, por propósito.",
			},
			[]string{"purpose"},
		),
		autofill: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconciliation_batches_autofilled_total",
			Help: "Filas de lote agregadas con qty 0 en Stock Reconciliation.",
		}),
	}
	for _, c := range []prometheus.Collector{r.submitted, r.generated, r.autofill} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DocumentSubmitted incrementa documents_submitted_total.
func (r *Recorder) DocumentSubmitted(doctype, stockEntryType string) {
	r.submitted.WithLabelValues(doctype, stockEntryType).Inc()
}

// EntryGenerated incrementa tinting_entries_generated_total.
func (r *Recorder) EntryGenerated(purpose string) {
	r.generated.WithLabelValues(purpose).Inc()
}

// BatchesAutofilled suma las filas agregadas.
func (r *Recorder) BatchesAutofilled(n int) {
	if n > 0 {
		r.autofill.Add(float64(n))
	}
}
