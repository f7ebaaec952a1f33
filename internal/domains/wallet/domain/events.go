package domain

import "time"

// TransactionRecorded is raised after a balance change has been committed.
type TransactionRecorded struct {
	EventID     string
	Transaction Transaction
	Timestamp   time.Time
}

// EventName returns the event type identifier.
func (e TransactionRecorded) EventName() string {
	return "wallet.transaction.recorded"
}

// OccurredAt returns when the event occurred.
func (e TransactionRecorded) OccurredAt() time.Time {
	return e.Timestamp
}
