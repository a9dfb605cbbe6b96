package engine

import "fmt"

// Severity ranks status lines.
type Severity int

// Severities.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notification is one outbound event for observers.
type Notification interface {
	notification()
}

// StatusLine is a human-readable status message.
type StatusLine struct {
	Severity Severity
	Text     string
}

// Status batches the status lines produced while handling one message.
type Status struct {
	Lines []StatusLine
}

// SaveComplete lists the profiles a save request wrote or failed to write.
// Skipped saves count as succeeded since the disk copy is current.
type SaveComplete struct {
	Succeeded []string
	Failed    []string
}

// ProfileLoading is sent before a profile switch starts.
type ProfileLoading struct {
	Name string
}

// ProfileLoaded is sent once a profile is active.
type ProfileLoaded struct {
	Name   string
	New    bool
	Source string
}

// QueueReport answers a QueueDepth request.
type QueueReport struct {
	Pending int
}

func (Status) notification()         {}
func (SaveComplete) notification()   {}
func (ProfileLoading) notification() {}
func (ProfileLoaded) notification()  {}
func (QueueReport) notification()    {}

// notify sends n without blocking. Notifications that do not fit are
// dropped and counted.
func (e *Engine) notify(n Notification) {
	if e.out == nil {
		return
	}
	select {
	case e.out <- n:
	default:
		e.dropped.Add(1)
	}
}

func (e *Engine) statusf(severity Severity, format string, args ...any) {
	e.status = append(e.status, StatusLine{Severity: severity, Text: fmt.Sprintf(format, args...)})
}

func (e *Engine) flushStatus() {
	if len(e.status) == 0 {
		return
	}
	e.notify(Status{Lines: e.status})
	e.status = nil
}
