// Package constant centralizes sentinel values, telemetry metric names, and
// span event names shared by the lifeguard subsystems.
package constant

// IndexNone is the reserved "no id" sentinel for integer identifier fields.
// An integer field tagged `invariant:"ID"` must never hold this value.
const IndexNone = -1

// TelemetrySDKName identifies this library in OTEL telemetry resource attributes.
const TelemetrySDKName = "lib-lifeguard/opentelemetry"

// MaxMetricLabelLength is the maximum length for metric labels to prevent cardinality explosion.
const MaxMetricLabelLength = 64

// Telemetry attribute key prefixes.
const (
	// AttrPrefixContract is the prefix for contract halt event attributes.
	AttrPrefixContract = "contract."
	// AttrPrefixDomainError is the prefix for floodlight domain error attributes.
	AttrPrefixDomainError = "domain_error."
)

// Telemetry metric names.
const (
	// MetricContractHaltTotal is the counter metric for fatal contract halts.
	MetricContractHaltTotal = "contract_halt_total"
	// MetricDomainErrorTotal is the counter metric for reported domain errors.
	MetricDomainErrorTotal = "domain_error_total"
	// MetricDomainErrorBudget is the gauge metric for the remaining error budget.
	MetricDomainErrorBudget = "domain_error_budget_remaining"
	// MetricChecklistStepTotal is the counter metric for completed checklist steps.
	MetricChecklistStepTotal = "checklist_step_total"
)

// Telemetry event names.
const (
	// EventContractHalt is the span event name for fatal contract halts.
	EventContractHalt = "contract.halt"
	// EventDomainError is the span event name for reported domain errors.
	EventDomainError = "domain_error.reported"
)

// SanitizeMetricLabel truncates a label value to MaxMetricLabelLength
// to prevent metric cardinality explosion in OTEL backends.
func SanitizeMetricLabel(value string) string {
	if len(value) > MaxMetricLabelLength {
		return value[:MaxMetricLabelLength]
	}

	return value
}
