package domain

import "time"

// Cohort is the ordered set of model identifiers selected for one
// request. Order matters only for display; dispatch is parallel.
type Cohort []ModelID

func (c Cohort) Contains(id ModelID) bool {
	for _, member := range c {
		if member == id {
			return true
		}
	}
	return false
}

type FailureKind string

const (
	FailureTimeout FailureKind = "timeout"
	FailureBackend FailureKind = "backend_error"
)

// DispatchOutcome is the per-model result of one dispatch attempt.
// Failure is empty on success; Response is empty on failure.
type DispatchOutcome struct {
	Model    ModelID
	Response string
	Latency  time.Duration
	Failure  FailureKind
	Cause    string
}

func (o DispatchOutcome) Success() bool {
	return o.Failure == ""
}
