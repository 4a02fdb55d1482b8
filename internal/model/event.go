package model

// EventKind distinguishes the two progress event payloads.
type EventKind string

const (
	// EventPercent carries a completion percentage relayed from the engine.
	EventPercent EventKind = "percent"

	// EventStatus carries a human-readable status line.
	EventStatus EventKind = "status"
)

// ProgressEvent is one unit of progress feedback, produced by the
// orchestration worker and consumed exactly once by a shell.
type ProgressEvent struct {
	Kind    EventKind
	Percent float64 // 0..100, EventPercent only
	Message string  // EventStatus only
}

// PercentEvent builds a percentage event.
func PercentEvent(percent float64) ProgressEvent {
	return ProgressEvent{Kind: EventPercent, Percent: percent}
}

// StatusEvent builds a status message event.
func StatusEvent(message string) ProgressEvent {
	return ProgressEvent{Kind: EventStatus, Message: message}
}
