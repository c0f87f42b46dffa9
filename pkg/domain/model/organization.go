package model

import (
	"time"

	"github.com/resq-lab/rollcall/pkg/domain/types"
)

// ParticipatingOrg is an organization taking part in an activity.
type ParticipatingOrg struct {
	ID         types.OrgID `json:"id"`
	Title      string      `json:"title"`
	RosterName string      `json:"rosterName,omitempty"`

	// Timeline is ordered newest-first and is appended to only through
	// the dedicated timeline action; it is never truncated.
	Timeline []OrgStatusUpdate `json:"timeline"`
}

// OrgStatusUpdate is one entry in an organization's status timeline.
type OrgStatusUpdate struct {
	Time   time.Time       `json:"time"`
	Status types.OrgStatus `json:"status"`
}

// Prepend pushes a new update onto the head of the timeline.
func (x *ParticipatingOrg) Prepend(update OrgStatusUpdate) {
	x.Timeline = append([]OrgStatusUpdate{update}, x.Timeline...)
}

// Clone returns a deep copy of the organization record.
func (x *ParticipatingOrg) Clone() *ParticipatingOrg {
	if x == nil {
		return nil
	}

	copied := *x
	copied.Timeline = make([]OrgStatusUpdate, len(x.Timeline))
	copy(copied.Timeline, x.Timeline)

	return &copied
}
