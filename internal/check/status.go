package check

import (
	"fmt"
	"time"
)

// Status is the progress state a check task reports through the mux.
// Running, Retrying and Waiting are transient; Succeeded and Failed are
// the outcomes of one attempt-cycle.
type Status int

const (
	StatusRunning Status = iota
	StatusRetrying
	StatusWaiting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusRetrying:
		return "Retrying"
	case StatusWaiting:
		return "Waiting"
	case StatusSucceeded:
		return "Succeeded"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Update is a single status event from one check task. Wait is set only
// for StatusWaiting; Message carries a failure description, a waiting
// reason, or a probe progress note.
type Update struct {
	ID      int
	Status  Status
	Message string
	Wait    time.Duration
}

func (u Update) Describe() string {
	switch u.Status {
	case StatusWaiting:
		return fmt.Sprintf("%s %s (%s)", u.Status, u.Wait, u.Message)
	default:
		return u.Status.String()
	}
}
