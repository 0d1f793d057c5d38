package anchor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "anchorprobe"

	MetricNameTransactions         = Namespace + "_transactions_total"
	MetricNameConfirmationDuration = Namespace + "_confirmation_duration_seconds"
	MetricNameErrors               = Namespace + "_errors_total"

	LabelInstruction = "instruction"
	LabelResult      = "result"
	LabelErrorType   = "error_type"

	ResultConfirmed = "confirmed"
	ResultFailed    = "failed"

	ErrorTypeBlockhash         = "blockhash"
	ErrorTypeSign              = "sign"
	ErrorTypeSend              = "send"
	ErrorTypeConfirm           = "confirm"
	ErrorTypeProgram           = "program"
	ErrorTypeDeploymentCheck   = "deployment_check"
	ErrorTypeAccountResolution = "account_resolution"
)

var (
	MetricTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransactions,
			Help: "Number of transactions submitted, by instruction and outcome",
		},
		[]string{LabelInstruction, LabelResult},
	)

	MetricConfirmationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameConfirmationDuration,
			Help:    "Time from submission until the transaction reached the provider commitment",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{LabelInstruction},
	)

	MetricErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameErrors,
			Help: "Number of errors encountered",
		},
		[]string{LabelErrorType},
	)
)
