package model

import (
	"time"
)

// HistoryRecord is one append-only audit entry. The record is written
// for every action the server accepts and is never read back by this
// service.
type HistoryRecord struct {
	// Action is the accepted action serialized as JSON.
	Action string    `json:"action"`
	Time   time.Time `json:"time"`
	UserID string    `json:"userId"`
	Email  string    `json:"email"`
}
