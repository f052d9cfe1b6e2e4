package monitor

// DefaultEventLogSize is how many entries the event log keeps.
const DefaultEventLogSize = 50

// eventPrefix marks every entry in the log panel.
const eventPrefix = "> "

// EventLog is a bounded list of user-facing messages, newest first.
type EventLog struct {
	entries []string
	cap     int
}

// NewEventLog creates a log holding at most size entries.
func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = DefaultEventLogSize
	}
	return &EventLog{cap: size}
}

// Add records msg at the head, dropping the oldest entry past capacity.
func (l *EventLog) Add(msg string) {
	l.entries = append(l.entries, "")
	copy(l.entries[1:], l.entries)
	l.entries[0] = eventPrefix + msg
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
}

// Entries returns a copy of the log, newest first.
func (l *EventLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *EventLog) Len() int {
	return len(l.entries)
}
