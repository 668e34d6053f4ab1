package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	GamesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shelf_games_started_total",
		Help: "Total number of games started",
	})

	DaysSimulated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shelf_days_simulated_total",
		Help: "Total number of simulated days",
	})

	// Events by kind; days without an event are counted as "none".
	Events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shelf_events_total",
		Help: "Daily events by kind",
	}, []string{"kind"})

	UnitsSold = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shelf_units_sold_total",
		Help: "Total units sold across all products",
	})

	Stockouts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shelf_stockouts_total",
		Help: "Product-days where demand exceeded stock",
	}, []string{"product"})

	RestockOrders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shelf_restock_orders_total",
		Help: "Restock orders placed",
	}, []string{"product"})

	Unlocks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shelf_unlocks_total",
		Help: "Store items unlocked",
	}, []string{"item"})

	Budget = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shelf_budget_dollars",
		Help: "Budget of the live game",
	})

	Day = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shelf_day",
		Help: "Current day of the live game",
	})

	// Latency of HTTP handlers by route pattern
	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shelf_http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			GamesStarted,
			DaysSimulated,
			Events,
			UnitsSold,
			Stockouts,
			RestockOrders,
			Unlocks,
			Budget,
			Day,
			HTTPLatency,
		)
	})
}
