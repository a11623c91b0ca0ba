package entity

import (
	"time"
)

// RawEmail represents a fetched email message used as extraction input.
// It is immutable once stored: the pipeline only reads it.
type RawEmail struct {
	EmailID    string    `bson:"emailId" json:"emailId"`
	Account    string    `bson:"account" json:"account"`
	From       string    `bson:"from" json:"from"`
	To         string    `bson:"to" json:"to"`
	Subject    string    `bson:"subject" json:"subject"`
	Body       string    `bson:"body" json:"body"`
	HTMLBody   string    `bson:"htmlBody" json:"htmlBody"`
	ReceivedAt time.Time `bson:"receivedAt" json:"receivedAt"`
	FetchedAt  time.Time `bson:"fetchedAt" json:"fetchedAt"`
}

// Text returns the best available body for pattern matching: the plain
// text part when present, the HTML part otherwise.
func (e *RawEmail) Text() string {
	if e.Body != "" {
		return e.Body
	}
	return e.HTMLBody
}
