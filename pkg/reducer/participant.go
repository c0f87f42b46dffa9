package reducer

import (
	"time"

	"github.com/resq-lab/rollcall/pkg/domain/action"
	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
)

// applyParticipantUpdate is the participant status state machine.
//
// Transition rules, in order:
//   - unknown activity: no-op
//   - unknown participant: created with an empty timeline
//   - organization change while still active: a SignedOut entry for the
//     old organization is synthesized at the new event's time, and tags
//     are cleared (tags are organization-specific)
//   - same organization, same status: discarded, so redundant re-clicks
//     do not spam the timeline
//   - SignedIn: the participant is force-signed-out of any other
//     activity where they are currently SignedIn
func applyParticipantUpdate(state *model.ActivityState, p action.ParticipantUpdatePayload) {
	a := state.Find(p.ActivityID)
	if a == nil {
		return
	}

	participant := a.Participants[p.ParticipantID]
	if participant == nil {
		participant = &model.Participant{ID: p.ParticipantID}
		a.Participants[p.ParticipantID] = participant
	}

	if last := participant.Current(); last != nil {
		if last.OrganizationID != p.OrganizationID {
			if last.Status != types.StatusSignedOut && last.Status != types.StatusNotResponding {
				participant.Prepend(model.ParticipantUpdate{
					Time:           p.Time,
					OrganizationID: last.OrganizationID,
					Status:         types.StatusSignedOut,
				})
			}
			participant.Tags = nil
		} else if last.Status == p.Status {
			return
		}
	}

	participant.Firstname = p.Firstname
	participant.Lastname = p.Lastname
	participant.OrganizationID = p.OrganizationID
	participant.Prepend(model.ParticipantUpdate{
		Time:           p.Time,
		OrganizationID: p.OrganizationID,
		Status:         p.Status,
	})

	if p.Status == types.StatusSignedIn {
		signOutElsewhere(state, p.ActivityID, p.ParticipantID, p.Time)
	}
}

// signOutElsewhere enforces cross-activity exclusivity: a person cannot
// be concurrently signed in to two activities. Runs entirely inside the
// reducer so it replays identically on every peer.
func signOutElsewhere(state *model.ActivityState, activityID types.ActivityID, participantID types.ParticipantID, at time.Time) {
	for _, other := range state.Activities {
		if other.ID == activityID {
			continue
		}

		participant := other.Participants[participantID]
		if participant == nil {
			continue
		}

		current := participant.Current()
		if current == nil || current.Status != types.StatusSignedIn {
			continue
		}

		participant.Prepend(model.ParticipantUpdate{
			Time:           at,
			OrganizationID: current.OrganizationID,
			Status:         types.StatusSignedOut,
		})
	}
}
