package domain

import "time"

// Message is one record in the append-only log. SentAt is assigned by the
// store at insert time; Delivered flips false→true exactly once.
type Message struct {
	Sender    string
	Recipient string
	Body      string
	SentAt    time.Time
	Delivered bool
}
