package action

import (
	"time"

	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
)

// ActivityPatch is the picked set of activity fields a client may merge.
// Roster maps are deliberately absent: participants and organizations
// change only through their dedicated actions.
type ActivityPatch struct {
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

	StartTime         time.Time      `json:"startTime"`
	EndTime           *time.Time     `json:"endTime,omitempty"`
	EarlySignInWindow *time.Duration `json:"earlySignInWindow,omitempty"`
}

// PatchFromActivity projects an activity down to its patchable fields.
func PatchFromActivity(a *model.Activity) ActivityPatch {
	return ActivityPatch{
		ID:                a.ID,
		Title:             a.Title,
		Description:       a.Description,
		Location:          a.Location,
		MapID:             a.MapID,
		IDNumber:          a.IDNumber,
		OwnerOrgID:        a.OwnerOrgID,
		IsMission:         a.IsMission,
		AsMission:         a.AsMission,
		ForceStandbyOnly:  a.ForceStandbyOnly,
		StartTime:         a.StartTime,
		EndTime:           a.EndTime,
		EarlySignInWindow: a.EarlySignInWindow,
	}
}

// ApplyTo merges the patch onto an activity in place.
func (p ActivityPatch) ApplyTo(a *model.Activity) {
	a.ID = p.ID
	a.Title = p.Title
	a.Description = p.Description
	a.Location = p.Location
	a.MapID = p.MapID
	a.IDNumber = p.IDNumber
	a.OwnerOrgID = p.OwnerOrgID
	a.IsMission = p.IsMission
	a.AsMission = p.AsMission
	a.ForceStandbyOnly = p.ForceStandbyOnly
	a.StartTime = p.StartTime
	a.EndTime = p.EndTime
	a.EarlySignInWindow = p.EarlySignInWindow
}

// OrgPatch is the picked set of organization fields a client may merge.
type OrgPatch struct {
	ID         types.OrgID `json:"id"`
	Title      string      `json:"title"`
	RosterName string      `json:"rosterName,omitempty"`
}

// ApplyTo merges the patch onto an organization record in place.
func (p OrgPatch) ApplyTo(org *model.ParticipatingOrg) {
	org.ID = p.ID
	org.Title = p.Title
	org.RosterName = p.RosterName
}
