// Package metrics Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	SaveDispatches  *prometheus.CounterVec // outcome: ok|failed|in_flight
	SavesReceived   *prometheus.CounterVec // outcome: ok|error
	VisitsAdded     *prometheus.CounterVec // outcome: ok|invalid|error
	Exports         *prometheus.CounterVec // file
	ScoreRecomputes prometheus.Counter
}

// New 创建并注册到 reg；reg 为 nil 时只创建不注册（测试用）
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SaveDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care_record",
			Name:      "save_dispatches_total",
			Help:      "Save-all submissions sent to the save endpoint, by outcome.",
		}, []string{"outcome"}),
		SavesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care_record",
			Name:      "saves_received_total",
			Help:      "Save-all payloads received by the save endpoint, by outcome.",
		}, []string{"outcome"}),
		VisitsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care_record",
			Name:      "visits_added_total",
			Help:      "Visit entries submitted, by outcome.",
		}, []string{"outcome"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care_record",
			Name:      "exports_total",
			Help:      "Downloaded export files, by filename.",
		}, []string{"file"}),
		ScoreRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "care_record",
			Name:      "score_recomputes_total",
			Help:      "Assessment total recomputations triggered by score changes.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.SaveDispatches, m.SavesReceived, m.VisitsAdded, m.Exports, m.ScoreRecomputes)
	}
	return m
}
