// Package reducer holds the pure state transition functions: one per
// action kind, operating on a mutable draft of ActivityState. Reducers
// never perform I/O, so replaying the same action against the same
// prior state yields the same result on every peer.
package reducer

import (
	"github.com/resq-lab/rollcall/pkg/domain/action"
	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
)

// Apply mutates the draft state according to the action. The switch is
// exhaustive over the closed payload union; adding an action kind
// without a reducer arm is a compile-visible gap, not a runtime lookup
// miss.
func Apply(state *model.ActivityState, act action.Action) {
	switch p := act.Payload.(type) {
	case action.ReloadPayload:
		applyReload(state, p)
	case action.UpdatePayload:
		applyUpdate(state, p)
	case action.RemovePayload:
		state.Remove(p.ActivityID)
	case action.ReactivatePayload:
		applyReactivate(state, p)
	case action.CompletePayload:
		applyComplete(state, p)
	case action.AppendOrgTimelinePayload:
		applyAppendOrgTimeline(state, p)
	case action.ParticipantUpdatePayload:
		applyParticipantUpdate(state, p)
	case action.TagParticipantPayload:
		applyTagParticipant(state, p)
	}
}

// applyReload replaces the draft wholesale. The incoming state is deep
// copied so the draft never aliases the caller's snapshot.
func applyReload(state *model.ActivityState, p action.ReloadPayload) {
	if p.State == nil {
		state.Activities = nil
		return
	}
	*state = *p.State.Clone()
}

func applyUpdate(state *model.ActivityState, p action.UpdatePayload) {
	a := state.Find(p.Activity.ID)
	if a == nil {
		a = model.NewActivity(p.Activity.ID)
		state.Activities = append(state.Activities, a)
	}
	p.Activity.ApplyTo(a)
}

func applyReactivate(state *model.ActivityState, p action.ReactivatePayload) {
	if a := state.Find(p.ActivityID); a != nil {
		a.EndTime = nil
	}
}

// applyComplete ends the activity and signs out every active
// participant through the regular participant-update path, so the
// org-change and cross-activity rules stay consistent with manual
// sign-outs.
func applyComplete(state *model.ActivityState, p action.CompletePayload) {
	a := state.Find(p.ActivityID)
	if a == nil {
		return
	}

	endTime := p.EndTime
	a.EndTime = &endTime

	for id, participant := range a.Participants {
		current := participant.Current()
		if current == nil || !current.Status.IsActive() {
			continue
		}
		applyParticipantUpdate(state, action.ParticipantUpdatePayload{
			ActivityID:     p.ActivityID,
			ParticipantID:  id,
			Firstname:      participant.Firstname,
			Lastname:       participant.Lastname,
			OrganizationID: participant.OrganizationID,
			Time:           endTime,
			Status:         types.StatusSignedOut,
		})
	}
}

// applyAppendOrgTimeline upserts the organization record and prepends
// the status entry unconditionally. Duplicate consecutive entries are
// allowed.
func applyAppendOrgTimeline(state *model.ActivityState, p action.AppendOrgTimelinePayload) {
	a := state.Find(p.ActivityID)
	if a == nil {
		return
	}

	org := a.Organizations[p.Org.ID]
	if org == nil {
		org = &model.ParticipatingOrg{ID: p.Org.ID}
		a.Organizations[p.Org.ID] = org
	}

	p.Org.ApplyTo(org)
	org.Prepend(p.Entry)
}

func applyTagParticipant(state *model.ActivityState, p action.TagParticipantPayload) {
	a := state.Find(p.ActivityID)
	if a == nil {
		return
	}
	participant := a.Participants[p.ParticipantID]
	if participant == nil {
		return
	}

	participant.Tags = make([]string, len(p.Tags))
	copy(participant.Tags, p.Tags)
}
