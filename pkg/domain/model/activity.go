package model

import (
	"time"

	"github.com/resq-lab/rollcall/pkg/domain/types"
)

// Activity is a mission or event with a roster of participants and
// participating organizations.
type Activity struct {
	ID          types.ActivityID `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	MapID       string           `json:"mapId"`
	IDNumber    string           `json:"idNumber"`
	OwnerOrgID  types.OrgID      `json:"ownerOrgId"`

	IsMission        bool `json:"isMission"`
	AsMission        bool `json:"asMission"`
	ForceStandbyOnly bool `json:"forceStandbyOnly"`

	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`

	// EarlySignInWindow allows sign-in before StartTime.
	EarlySignInWindow *time.Duration `json:"earlySignInWindow,omitempty"`

	Participants  map[types.ParticipantID]*Participant `json:"participants"`
	Organizations map[types.OrgID]*ParticipatingOrg    `json:"organizations"`
}

// NewActivity returns an Activity with initialized roster maps.
func NewActivity(id types.ActivityID) *Activity {
	return &Activity{
		ID:            id,
		Participants:  make(map[types.ParticipantID]*Participant),
		Organizations: make(map[types.OrgID]*ParticipatingOrg),
	}
}

// Completed reports whether the activity has been marked complete.
func (x *Activity) Completed() bool {
	return x.EndTime != nil
}

// Clone returns a deep copy. The roster maps and every participant and
// organization record are copied; timelines share no storage with the
// original.
func (x *Activity) Clone() *Activity {
	if x == nil {
		return nil
	}

	copied := *x
	if x.EndTime != nil {
		t := *x.EndTime
		copied.EndTime = &t
	}
	if x.EarlySignInWindow != nil {
		d := *x.EarlySignInWindow
		copied.EarlySignInWindow = &d
	}

	copied.Participants = make(map[types.ParticipantID]*Participant, len(x.Participants))
	for id, p := range x.Participants {
		copied.Participants[id] = p.Clone()
	}
	copied.Organizations = make(map[types.OrgID]*ParticipatingOrg, len(x.Organizations))
	for id, org := range x.Organizations {
		copied.Organizations[id] = org.Clone()
	}

	return &copied
}
