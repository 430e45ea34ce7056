package domain

import "time"

// SystemMetrics accumulates per-session counters. Values never decrease.
type SystemMetrics struct {
	TotalRequests      int       `json:"totale_richieste"`
	TotalSubstitutions int       `json:"totale_sostituzioni"`
	AvgResponseSeconds float64   `json:"tempo_medio_risposta"`
	TotalCost          float64   `json:"costo_totale"`
	LastUpdated        time.Time `json:"ultimo_aggiornamento"`
}

// Record folds one completed turn into the metrics. The average is updated
// incrementally as (oldAvg*(n-1) + d) / n with n the post-increment count.
func (m *SystemMetrics) Record(count int, duration time.Duration, cost float64, now time.Time) {
	if count < 0 {
		count = 0
	}
	if cost < 0 {
		cost = 0
	}
	m.TotalRequests++
	m.TotalSubstitutions += count
	n := float64(m.TotalRequests)
	m.AvgResponseSeconds = (m.AvgResponseSeconds*(n-1) + duration.Seconds()) / n
	m.TotalCost += cost
	m.LastUpdated = now
}
