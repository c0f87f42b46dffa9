package model

import (
	"time"

	"github.com/resq-lab/rollcall/pkg/domain/types"
)

// Participant is one person on an activity roster. Identity is stable
// across activities; the roster record is per-activity.
type Participant struct {
	ID             types.ParticipantID `json:"id"`
	Firstname      string              `json:"firstname"`
	Lastname       string              `json:"lastname"`
	OrganizationID types.OrgID         `json:"organizationId"`

	// Timeline is ordered newest-first: Timeline[0] is the current
	// status. Entries are prepended, never mutated or reordered.
	Timeline []ParticipantUpdate `json:"timeline"`

	Tags  []string `json:"tags,omitempty"`
	Miles float64  `json:"miles,omitempty"`
}

// ParticipantUpdate is one entry in a participant's status timeline.
type ParticipantUpdate struct {
	Time           time.Time               `json:"time"`
	OrganizationID types.OrgID             `json:"organizationId"`
	Status         types.ParticipantStatus `json:"status"`
}

// Current returns the head of the timeline, or nil for an empty timeline.
func (x *Participant) Current() *ParticipantUpdate {
	if len(x.Timeline) == 0 {
		return nil
	}
	return &x.Timeline[0]
}

// Prepend pushes a new update onto the head of the timeline.
func (x *Participant) Prepend(update ParticipantUpdate) {
	x.Timeline = append([]ParticipantUpdate{update}, x.Timeline...)
}

// Clone returns a deep copy of the participant.
func (x *Participant) Clone() *Participant {
	if x == nil {
		return nil
	}

	copied := *x
	copied.Timeline = make([]ParticipantUpdate, len(x.Timeline))
	copy(copied.Timeline, x.Timeline)
	if x.Tags != nil {
		copied.Tags = make([]string, len(x.Tags))
		copy(copied.Tags, x.Tags)
	}

	return &copied
}
