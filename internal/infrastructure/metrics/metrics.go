// Package metrics expone contadores Prometheus del motor de inventario.
package metrics

import (
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
)

var _ inventory.Recorder = (*Metrics)(nil)

const namespace = "bodega"

// Metrics contadores del libro y rechazos.
type Metrics struct {
	Movements  *prometheus.CounterVec
	Rejections *prometheus.CounterVec
	Drift      prometheus.Counter
}

// New registra los contadores en reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Entradas escritas en el libro de movimientos, por acción.",
		}, []string{"action"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_rejections_total",
			Help:      "Operaciones de stock rechazadas, por motivo.",
		}, []string{"reason"}),
		Drift: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_drift_total",
			Help:      "Movimientos registrados cuyo stock afirmado no coincide con el del lote.",
		}),
	}
	reg.MustRegister(m.Movements, m.Rejections, m.Drift)
	return m
}

func (m *Metrics) MovementRecorded(action entity.MovementAction) {
	m.Movements.WithLabelValues(string(action)).Inc()
}

func (m *Metrics) MovementRejected(reason string) {
	m.Rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) LedgerDrift() {
	m.Drift.Inc()
}
