package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
	// PhaseFailed closes a phase that reported errors.
	PhaseFailed
)

// PhaseEvent describes a phase boundary. Unit is empty for events that
// cover the whole build.
type PhaseEvent struct {
	Name    string
	Unit    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events. It is called from worker goroutines
// and must be safe for concurrent use.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) notify(ev PhaseEvent) {
	if o != nil {
		o(ev)
	}
}
