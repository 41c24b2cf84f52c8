package metrics

import "github.com/prometheus/client_golang/prometheus"

// Store-level metrics recorded by the inventory and checkout services.
var (
	// StockMovements counts every committed inventory movement by direction
	// and business reference.
	StockMovements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafapos",
			Subsystem: "inventory",
			Name:      "stock_movements_total",
			Help:      "Total inventory movements committed.",
		},
		[]string{"direction", "reference"}, // "in"|"out", "sale"|"refund"|...
	)

	// LowStockAlerts counts products that crossed their low stock threshold.
	LowStockAlerts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cafapos",
		Subsystem: "inventory",
		Name:      "low_stock_alerts_total",
		Help:      "Total low stock alerts raised.",
	})

	// OrdersPlaced counts storefront orders placed.
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cafapos",
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Total customer orders placed.",
	})

	// TransactionsProcessed counts completed point-of-sale transactions.
	TransactionsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafapos",
			Subsystem: "pos",
			Name:      "transactions_total",
			Help:      "Total point-of-sale transactions processed.",
		},
		[]string{"payment_method"},
	)
)

func init() {
	DefaultRegistry.MustRegister(
		StockMovements,
		LowStockAlerts,
		OrdersPlaced,
		TransactionsProcessed,
	)
}
