package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ActivityID identifies a mission or event. Immutable once assigned.
type ActivityID string

func NewActivityID() ActivityID {
	return ActivityID(uuid.NewString())
}

func (x ActivityID) String() string {
	return string(x)
}

func (x ActivityID) Validate() error {
	if x == "" {
		return goerr.New("activity ID is empty")
	}
	return nil
}

// ParticipantID identifies a person. Stable across activities.
type ParticipantID string

func (x ParticipantID) String() string {
	return string(x)
}

func (x ParticipantID) Validate() error {
	if x == "" {
		return goerr.New("participant ID is empty")
	}
	return nil
}

// OrgID identifies an organization.
type OrgID string

func (x OrgID) String() string {
	return string(x)
}

// ConnectionID identifies one client connection (one per tab/device).
type ConnectionID string

func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.NewString())
}

func (x ConnectionID) String() string {
	return string(x)
}
