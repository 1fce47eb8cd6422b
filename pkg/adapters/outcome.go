package adapters

import (
	"context"
	"time"
)

// Status is the terminal result of a delivery.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailure Status = "Failure"
)

// Attempt describes a single delivery try.
type Attempt struct {
	Number     int
	StatusCode int
	Err        error
	Duration   time.Duration
	StartedAt  time.Time
}

// Succeeded reports whether the attempt got a 2xx response.
func (a Attempt) Succeeded() bool {
	return a.Err == nil && a.StatusCode >= 200 && a.StatusCode < 300
}

// Outcome is the value form of a delivery result. Deliverers never return
// errors; failures are carried in Status and Detail.
type Outcome struct {
	Status   Status
	Detail   string
	Attempts []Attempt
}

// OK reports whether the delivery succeeded.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// Success builds a successful outcome.
func Success(detail string, attempts []Attempt) Outcome {
	return Outcome{Status: StatusSuccess, Detail: detail, Attempts: attempts}
}

// Failure builds a failed outcome.
func Failure(detail string, attempts []Attempt) Outcome {
	return Outcome{Status: StatusFailure, Detail: detail, Attempts: attempts}
}

// Deliverer is implemented by messengers that own their retry ladder and
// report every attempt.
type Deliverer interface {
	Messenger
	Deliver(ctx context.Context, payload []byte) Outcome
}
