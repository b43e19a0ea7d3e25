package store

// NotificationLedger records, per scheduled-task ID, when an alert last
// fired: the calendar day for recurring tasks, the calendar minute for
// one-time tasks. It is what guarantees at-most-one alert per occurrence
// no matter how often the due-check tick runs inside the due window.
type NotificationLedger struct {
	entries map[string]ledgerEntry
}

type ledgerEntry struct {
	LastAlertDay    string `json:"last_alert_day,omitempty" yaml:"last_alert_day,omitempty"`
	LastAlertMinute string `json:"last_alert_minute,omitempty" yaml:"last_alert_minute,omitempty"`
}

// NewNotificationLedger returns an empty ledger.
func NewNotificationLedger() *NotificationLedger {
	return &NotificationLedger{entries: make(map[string]ledgerEntry)}
}

// AlertedOnDay reports whether id already alerted on the given calendar
// day ("2006-01-02").
func (l *NotificationLedger) AlertedOnDay(id, day string) bool {
	return l.entries[id].LastAlertDay == day && day != ""
}

// AlertedAtMinute reports whether id already alerted in the given calendar
// minute ("2006-01-02 15:04").
func (l *NotificationLedger) AlertedAtMinute(id, minute string) bool {
	return l.entries[id].LastAlertMinute == minute && minute != ""
}

// MarkDay records a recurring alert for id on day.
func (l *NotificationLedger) MarkDay(id, day string) {
	e := l.entries[id]
	e.LastAlertDay = day
	l.entries[id] = e
}

// MarkMinute records a one-time alert for id at minute.
func (l *NotificationLedger) MarkMinute(id, minute string) {
	e := l.entries[id]
	e.LastAlertMinute = minute
	l.entries[id] = e
}

// Forget drops all bookkeeping for id. Called when a task leaves the
// scheduled collection; a rescheduled occurrence starts clean under its
// new ID.
func (l *NotificationLedger) Forget(id string) {
	delete(l.entries, id)
}

// Clear drops every entry.
func (l *NotificationLedger) Clear() {
	l.entries = make(map[string]ledgerEntry)
}

// Len reports the number of tracked IDs.
func (l *NotificationLedger) Len() int {
	return len(l.entries)
}
