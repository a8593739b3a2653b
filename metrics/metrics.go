// Package metrics provides Prometheus instrumentation for plan generation,
// grounded on the metrics package of this module's domain-stack
// contributor (see DESIGN.md): a Namespace/Label constant block plus
// package-level promauto vectors, registered against the default
// registry the first time this package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all policyplan metrics.
	Namespace = "policyplan"

	// Label names.
	LabelScope      = "scope"
	LabelStatus     = "status"
	LabelRuleKind   = "rule_kind"
	LabelMethod     = "method"
	LabelStatusCode = "status_code"

	// Status values.
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// PlansGeneratedTotal counts completed Plan calls by scope and status.
	PlansGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "plans_generated_total",
			Help:      "Total number of evaluation plans generated, by scope and status",
		},
		[]string{LabelScope, LabelStatus},
	)

	// PlanGenerationDuration tracks wall-clock time spent inside Plan.
	PlanGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "plan_generation_duration_seconds",
			Help:      "Duration of Planner.Plan calls in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{LabelScope},
	)

	// RulesFilteredTotal counts rule steps produced with Filtered=true, by
	// scope and rule kind.
	RulesFilteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rules_filtered_total",
			Help:      "Total number of rule steps filtered out of a plan, by scope and rule kind",
		},
		[]string{LabelScope, LabelRuleKind},
	)

	// ConstraintsUnboundTotal counts atomic constraint steps with a nil
	// FunctionName, by scope.
	ConstraintsUnboundTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "constraints_unbound_total",
			Help:      "Total number of atomic constraints that resolved to no function, by scope",
		},
		[]string{LabelScope},
	)

	// HTTPRequestsTotal tracks the total number of HTTP requests served by
	// the policyplan server, by method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method and status code",
		},
		[]string{LabelMethod, LabelStatusCode},
	)

	// HTTPRequestDuration tracks the duration of HTTP requests in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelMethod},
	)
)
