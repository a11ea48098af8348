package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	handsDealtCounter      prometheus.Counter
	actionsAppliedCounter  prometheus.Counter
	actionsRejectedCounter prometheus.Counter
	botActionsCounter      prometheus.Counter
	activeTablesGauge      prometheus.Gauge
}

func (m *metrics) HandDealt() {
	m.handsDealtCounter.Inc()
}

func (m *metrics) ActionApplied() {
	m.actionsAppliedCounter.Inc()
}

func (m *metrics) ActionRejected() {
	m.actionsRejectedCounter.Inc()
}

func (m *metrics) BotActionApplied() {
	m.botActionsCounter.Inc()
}

func (m *metrics) SetActiveTableCount(count int) {
	m.activeTablesGauge.Set(float64(count))
}

var Metrics = &metrics{
	handsDealtCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hands_dealt_total",
		Help: "Total number of hands dealt across all tables",
	}),
	actionsAppliedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "player_actions_applied_total",
		Help: "Total number of betting actions applied",
	}),
	actionsRejectedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "player_actions_rejected_total",
		Help: "Total number of betting actions rejected",
	}),
	botActionsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_actions_applied_total",
		Help: "Total number of actions taken by bot seats",
	}),
	activeTablesGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_tables_count",
		Help: "Count of the entries in the table manager catalog",
	}),
}
