package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var Module = fx.Provide(NewMetrics)

// Metrics are the operational counters for the core operations.
type Metrics struct {
	CatalogRefreshes   prometheus.Counter
	AttributeExtracts  prometheus.Counter
	PurchasesRecorded  prometheus.Counter
	Recommendations    prometheus.Counter
	ContractViolations prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		CatalogRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beanbook_catalog_refreshes_total",
			Help: "Completed catalog refresh cycles.",
		}),
		AttributeExtracts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beanbook_attribute_extractions_total",
			Help: "Attribute records written by the extraction collaborator.",
		}),
		PurchasesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beanbook_purchases_recorded_total",
			Help: "Order ledger appends.",
		}),
		Recommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beanbook_recommendations_total",
			Help: "Accepted recommendations.",
		}),
		ContractViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beanbook_contract_violations_total",
			Help: "Reasoning collaborator responses rejected for contract violations.",
		}),
	}
	prometheus.MustRegister(
		m.CatalogRefreshes,
		m.AttributeExtracts,
		m.PurchasesRecorded,
		m.Recommendations,
		m.ContractViolations,
	)
	return m
}
