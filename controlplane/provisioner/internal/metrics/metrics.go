package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Metrics names.
	MetricNameBuildInfo          = "tokenmeta_provisioner_build_info"
	MetricNameErrors             = "tokenmeta_provisioner_errors_total"
	MetricNameProvisions         = "tokenmeta_provisioner_provisions_total"
	MetricNameConfirmationSecond = "tokenmeta_provisioner_confirmation_seconds"

	// Labels.
	LabelVersion   = "version"
	LabelCommit    = "commit"
	LabelDate      = "date"
	LabelErrorType = "error_type"
	LabelOutcome   = "outcome"
	LabelVariant   = "variant"

	// Outcomes.
	OutcomeCreated            = "created"
	OutcomeAlreadyProvisioned = "already_provisioned"
	OutcomeFailed             = "failed"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameBuildInfo,
			Help: "Build information of the metadata provisioner",
		},
		[]string{LabelVersion, LabelCommit, LabelDate},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameErrors,
			Help: "Number of errors encountered",
		},
		[]string{LabelErrorType},
	)

	Provisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameProvisions,
			Help: "Number of provisioning calls by outcome and instruction variant",
		},
		[]string{LabelOutcome, LabelVariant},
	)

	ConfirmationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameConfirmationSecond,
			Help:    "Time from submission until the transaction reached the configured commitment",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)
)
