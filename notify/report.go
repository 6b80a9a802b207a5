package notify

import (
	"errors"
	"fmt"
	"time"
)

// Delivery is the outcome of one request to one destination.
type Delivery struct {
	Destination string        `json:"destination"`
	Err         error         `json:"-"`
	Duration    time.Duration `json:"duration"`
}

func (d Delivery) Ok() bool {
	return d.Err == nil
}

// Report lists the per-destination results of a single Notify call. Failed
// deliveries are recorded here and never surface as a Notify error.
type Report struct {
	Notifier   string     `json:"notifier"`
	Skipped    bool       `json:"skipped,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Deliveries []Delivery `json:"deliveries"`
}

func NewReport(notifier string) *Report {
	return &Report{Notifier: notifier}
}

// Skip marks the report as intentionally not delivered.
func (r *Report) Skip(reason string) *Report {
	r.Skipped = true
	r.Reason = reason

	return r
}

func (r *Report) Add(d Delivery) {
	r.Deliveries = append(r.Deliveries, d)
}

func (r *Report) Failed() int {
	var n int
	for _, d := range r.Deliveries {
		if !d.Ok() {
			n++
		}
	}

	return n
}

// NotificationFailedError is returned when a notification could not be
// prepared, before any destination was contacted.
type NotificationFailedError struct {
	Notifier string
	Err      error
}

func Failed(notifier string, err error) *NotificationFailedError {
	return &NotificationFailedError{Notifier: notifier, Err: err}
}

func (e *NotificationFailedError) Error() string {
	return fmt.Sprintf("failed to send notification to %s: %v", e.Notifier, e.Err)
}

func (e *NotificationFailedError) Unwrap() error {
	return e.Err
}

func IsNotificationFailed(err error) bool {
	var nf *NotificationFailedError

	return errors.As(err, &nf)
}
