package action

import (
	"time"

	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
)

// Kind discriminates the action union on the wire.
type Kind string

const (
	KindReload            Kind = "reload"
	KindUpdate            Kind = "update"
	KindRemove            Kind = "remove"
	KindReactivate        Kind = "reactivate"
	KindComplete          Kind = "complete"
	KindAppendOrgTimeline Kind = "appendOrganizationTimeline"
	KindParticipantUpdate Kind = "participantUpdate"
	KindTagParticipant    Kind = "tagParticipant"
)

// Payload is the closed union of action payloads. The unexported method
// keeps the set of implementations fixed to this package, so reducers
// can switch over it exhaustively.
type Payload interface {
	Kind() Kind
	sync() bool
}

// Meta carries per-action transport flags.
type Meta struct {
	// Sync marks the action for forwarding to the authoritative server
	// and fan-out to peers. The server clears it before rebroadcast.
	Sync bool `json:"sync"`
}

// Action is one mutation record: a typed payload plus transport meta.
// This is the wire format and the only contract between the client
// agent and the state manager.
type Action struct {
	Payload Payload
	Meta    Meta
}

// New wraps a payload with its default sync flag.
func New(p Payload) Action {
	return Action{Payload: p, Meta: Meta{Sync: p.sync()}}
}

// ReloadPayload replaces the full activity state.
type ReloadPayload struct {
	State *model.ActivityState `json:"state"`
}

func (ReloadPayload) Kind() Kind { return KindReload }
func (ReloadPayload) sync() bool { return false }

// UpdatePayload upserts fields on an activity, creating it if the ID is
// unknown. The patch is a picked-property projection so a stale client
// object can never clobber fields outside the allowed set.
type UpdatePayload struct {
	Activity ActivityPatch `json:"activity"`
}

func (UpdatePayload) Kind() Kind { return KindUpdate }
func (UpdatePayload) sync() bool { return true }

// RemovePayload deletes an activity from canonical state. No tombstone.
type RemovePayload struct {
	ActivityID types.ActivityID `json:"activityId"`
}

func (RemovePayload) Kind() Kind { return KindRemove }
func (RemovePayload) sync() bool { return true }

// ReactivatePayload clears an activity's end time.
type ReactivatePayload struct {
	ActivityID types.ActivityID `json:"activityId"`
}

func (ReactivatePayload) Kind() Kind { return KindReactivate }
func (ReactivatePayload) sync() bool { return true }

// CompletePayload sets an activity's end time and force-signs-out every
// active participant.
type CompletePayload struct {
	ActivityID types.ActivityID `json:"activityId"`
	EndTime    time.Time        `json:"endTime"`
}

func (CompletePayload) Kind() Kind { return KindComplete }
func (CompletePayload) sync() bool { return true }

// AppendOrgTimelinePayload upserts organization metadata and prepends a
// status entry to its timeline.
type AppendOrgTimelinePayload struct {
	ActivityID types.ActivityID      `json:"activityId"`
	Org        OrgPatch              `json:"org"`
	Entry      model.OrgStatusUpdate `json:"entry"`
}

func (AppendOrgTimelinePayload) Kind() Kind { return KindAppendOrgTimeline }
func (AppendOrgTimelinePayload) sync() bool { return true }

// ParticipantUpdatePayload drives the participant status state machine.
type ParticipantUpdatePayload struct {
	ActivityID     types.ActivityID        `json:"activityId"`
	ParticipantID  types.ParticipantID     `json:"participantId"`
	Firstname      string                  `json:"firstname"`
	Lastname       string                  `json:"lastname"`
	OrganizationID types.OrgID             `json:"organizationId"`
	Time           time.Time               `json:"time"`
	Status         types.ParticipantStatus `json:"status"`
}

func (ParticipantUpdatePayload) Kind() Kind { return KindParticipantUpdate }
func (ParticipantUpdatePayload) sync() bool { return true }

// TagParticipantPayload replaces a participant's tag list.
type TagParticipantPayload struct {
	ActivityID    types.ActivityID    `json:"activityId"`
	ParticipantID types.ParticipantID `json:"participantId"`
	Tags          []string            `json:"tags"`
}

func (TagParticipantPayload) Kind() Kind { return KindTagParticipant }

// Tag edits stay local-only. Flipping this to true would replicate and
// persist tags like every other participant mutation.
func (TagParticipantPayload) sync() bool { return false }

// Reload builds a full-state replacement action.
func Reload(state *model.ActivityState) Action {
	return New(ReloadPayload{State: state})
}

// Update builds an activity upsert action.
func Update(patch ActivityPatch) Action {
	return New(UpdatePayload{Activity: patch})
}

// Remove builds an activity deletion action.
func Remove(id types.ActivityID) Action {
	return New(RemovePayload{ActivityID: id})
}

// Reactivate builds an action clearing an activity's end time.
func Reactivate(id types.ActivityID) Action {
	return New(ReactivatePayload{ActivityID: id})
}

// Complete builds an action ending an activity at the given time.
func Complete(id types.ActivityID, endTime time.Time) Action {
	return New(CompletePayload{ActivityID: id, EndTime: endTime})
}

// AppendOrgTimeline builds an organization timeline append action.
func AppendOrgTimeline(activityID types.ActivityID, org OrgPatch, entry model.OrgStatusUpdate) Action {
	return New(AppendOrgTimelinePayload{ActivityID: activityID, Org: org, Entry: entry})
}

// ParticipantUpdate builds a participant status transition action.
func ParticipantUpdate(activityID types.ActivityID, participantID types.ParticipantID, firstname, lastname string, organizationID types.OrgID, at time.Time, status types.ParticipantStatus) Action {
	return New(ParticipantUpdatePayload{
		ActivityID:     activityID,
		ParticipantID:  participantID,
		Firstname:      firstname,
		Lastname:       lastname,
		OrganizationID: organizationID,
		Time:           at,
		Status:         status,
	})
}

// TagParticipant builds a tag replacement action.
func TagParticipant(activityID types.ActivityID, participantID types.ParticipantID, tags []string) Action {
	return New(TagParticipantPayload{ActivityID: activityID, ParticipantID: participantID, Tags: tags})
}
