package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocorrencias_cycles_total",
		Help: "Total number of monitor cycles started.",
	})

	CycleErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocorrencias_cycle_errors_total",
		Help: "Total number of monitor cycles that failed before completing.",
	})

	RecordsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocorrencias_records_fetched_total",
		Help: "Total number of raw records fetched from the upstream feed.",
	})

	RecordsReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ocorrencias_records_reconciled_total",
		Help: "Total number of reconciled records, labelled by outcome.",
	}, []string{"outcome"})

	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ocorrencias_notifications_published_total",
		Help: "Total number of notification events queued, labelled by kind.",
	}, []string{"kind"})

	NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ocorrencias_notifications_delivered_total",
		Help: "Total number of notifications delivered to Telegram, labelled by kind.",
	}, []string{"kind"})

	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ocorrencias_notifications_failed_total",
		Help: "Total number of notifications dropped after exhausting retries, labelled by kind.",
	}, []string{"kind"})

	SweptIncidents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocorrencias_swept_incidents_total",
		Help: "Total number of incident rows removed by the retention sweep.",
	})

	ActiveIncidents = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ocorrencias_active_incidents",
		Help: "Current incident rows in the store, labelled by estado.",
	}, []string{"estado"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ocorrencias_fetch_duration_seconds",
		Help:    "Wall time of one full paginated feed fetch.",
		Buckets: prometheus.DefBuckets,
	})
)
