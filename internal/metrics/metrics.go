package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)

	HTTPRequestsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsRejected,
			Help: HelpTextHTTPRequestsRejected,
		},
		[]string{LabelClass, LabelReason},
	)
)

// Pipeline Metrics
var (
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsIngested,
			Help: HelpTextEventsIngested,
		},
		[]string{LabelType},
	)

	RulesMatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRulesMatched,
			Help: HelpTextRulesMatched,
		},
		[]string{LabelTrigger},
	)

	GateDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGateDenials,
			Help: HelpTextGateDenials,
		},
		[]string{LabelReason},
	)

	ResolutionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameResolutionFailures,
			Help: HelpTextResolutionFailures,
		},
		[]string{LabelOutcome},
	)

	EffectsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEffectsEmitted,
			Help: HelpTextEffectsEmitted,
		},
		[]string{LabelType},
	)

	EmissionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEmissionFailures,
			Help: HelpTextEmissionFailures,
		},
		[]string{LabelType},
	)

	RuleExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameRuleExecutionDuration,
			Help:    HelpTextRuleExecutionDuration,
			Buckets: RuleExecutionBuckets,
		},
		[]string{LabelOutcome},
	)

	RulesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameRulesInFlight,
			Help: HelpTextRulesInFlight,
		},
	)
)

// Scheduler, transport and worker metrics
var (
	SchedulerTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSchedulerTicks,
			Help: HelpTextSchedulerTicks,
		},
	)

	ScheduledRules = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameScheduledRules,
			Help: HelpTextScheduledRules,
		},
	)

	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSSEClients,
			Help: HelpTextSSEClients,
		},
	)

	StreamerbotConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameStreamerbotConnected,
			Help: HelpTextStreamerbotConnected,
		},
	)

	WorkerJobsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWorkerJobsDropped,
			Help: HelpTextWorkerJobsDropped,
		},
		[]string{LabelJob},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWorkerJobsFailed,
			Help: HelpTextWorkerJobsFailed,
		},
		[]string{LabelJob},
	)

	WorkerQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameWorkerQueueDepth,
			Help: HelpTextWorkerQueueDepth,
		},
	)
)
