package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameHTTPRequestsRejected = "http_requests_rejected_total"
)

// Pipeline metric names
const (
	MetricNameEventsIngested        = "events_ingested_total"
	MetricNameRulesMatched          = "rules_matched_total"
	MetricNameGateDenials           = "gate_denials_total"
	MetricNameResolutionFailures    = "outcome_resolution_failures_total"
	MetricNameEffectsEmitted        = "effects_emitted_total"
	MetricNameEmissionFailures      = "effect_emission_failures_total"
	MetricNameRuleExecutionDuration = "rule_execution_duration_seconds"
	MetricNameRulesInFlight         = "rules_in_flight"
)

// Scheduler and transport metric names
const (
	MetricNameSchedulerTicks       = "scheduler_ticks_total"
	MetricNameScheduledRules       = "scheduler_rules"
	MetricNameSSEClients           = "sse_clients"
	MetricNameStreamerbotConnected = "streamerbot_connected"
	MetricNameWorkerJobsDropped    = "worker_jobs_dropped_total"
	MetricNameWorkerJobsFailed     = "worker_jobs_failed_total"
	MetricNameWorkerQueueDepth     = "worker_queue_depth"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextHTTPRequestsRejected = "Total number of HTTP requests refused by the abuse monitor"
)

// Pipeline metric help text
const (
	HelpTextEventsIngested        = "Total number of external events ingested"
	HelpTextRulesMatched          = "Total number of rules whose trigger matched an event"
	HelpTextGateDenials           = "Total number of matched rules denied by the role or cooldown gate"
	HelpTextResolutionFailures    = "Total number of outcomes that failed to resolve"
	HelpTextEffectsEmitted        = "Total number of effects delivered to subscribers"
	HelpTextEmissionFailures      = "Total number of effects that could not be delivered"
	HelpTextRuleExecutionDuration = "Rule execution time in seconds, including the outcome delay"
	HelpTextRulesInFlight         = "Current number of rule executions in progress"
)

// Scheduler and transport metric help text
const (
	HelpTextSchedulerTicks       = "Total number of timer rules fired by the scheduler"
	HelpTextScheduledRules       = "Number of timer rules currently queued"
	HelpTextSSEClients           = "Current number of connected effect subscribers"
	HelpTextStreamerbotConnected = "1 when the Streamer.bot event source is connected"
	HelpTextWorkerJobsDropped    = "Total number of background jobs rejected because the queue was full or stopped"
	HelpTextWorkerJobsFailed     = "Total number of background jobs that returned an error"
	HelpTextWorkerQueueDepth     = "Number of background jobs waiting for a worker"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelTrigger = "trigger"
	LabelOutcome = "outcome"
	LabelReason  = "reason"
	LabelJob     = "job"
	LabelClass   = "class"
)

// Gate denial reasons
const (
	DenialRole           = "role"
	DenialCooldown       = "cooldown"
	DenialDirectoryError = "directory_error"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// RuleExecutionBuckets covers configured outcome delays up to a minute
var RuleExecutionBuckets = []float64{.005, .025, .1, .5, 1, 2.5, 5, 10, 30, 60}
