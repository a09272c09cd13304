// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SettingChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "killick_setting_changes_total",
		Help: "Setting changes applied through the settings store, by setting name",
	}, []string{"name"})

	SettingsPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "killick_settings_persist_failures_total",
		Help: "Settings writes that the persistence backend rejected",
	})

	SettingsLoadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "killick_settings_load_failures_total",
		Help: "Startups that fell back to default settings",
	})

	SettingsListenerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "killick_settings_listener_failures_total",
		Help: "Settings listeners that returned an error or panicked",
	})

	DashboardRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "killick_dashboard_renders_total",
		Help: "Dashboard frames rendered, by trigger",
	}, []string{"reason"})

	WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "killick_ws_clients",
		Help: "Connected websocket dashboard clients",
	})
)
