package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_sessions_active",
			Help: "Number of active client sessions",
		},
	)

	ChatCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_commands_total",
			Help: "Total number of commands dispatched by command and result",
		},
		[]string{"command", "result"},
	)

	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total number of messages persisted by delivery mode",
		},
		[]string{"delivery"},
	)

	ChatOfflineFlushedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_offline_flushed_total",
			Help: "Total number of offline messages flushed at login",
		},
	)

	ChatSessionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_session_errors_total",
			Help: "Total number of session errors by type",
		},
		[]string{"error_type"},
	)
)
