package model

import (
	"github.com/resq-lab/rollcall/pkg/domain/types"
)

// ActivityState is the full set of tracked activities. Order carries no
// meaning beyond display. Activity IDs are unique within the collection.
type ActivityState struct {
	Activities []*Activity `json:"activities"`
}

// Find returns the activity with the given ID, or nil if absent.
func (x *ActivityState) Find(id types.ActivityID) *Activity {
	for _, a := range x.Activities {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Remove deletes the activity with the given ID. Removing an unknown ID
// is a no-op.
func (x *ActivityState) Remove(id types.ActivityID) {
	for i, a := range x.Activities {
		if a.ID == id {
			x.Activities = append(x.Activities[:i], x.Activities[i+1:]...)
			return
		}
	}
}

// ByID returns the activities keyed by ID.
func (x *ActivityState) ByID() map[types.ActivityID]*Activity {
	byID := make(map[types.ActivityID]*Activity, len(x.Activities))
	for _, a := range x.Activities {
		byID[a.ID] = a
	}
	return byID
}

// Clone returns a deep copy of the whole state.
func (x *ActivityState) Clone() *ActivityState {
	if x == nil {
		return nil
	}

	copied := &ActivityState{
		Activities: make([]*Activity, len(x.Activities)),
	}
	for i, a := range x.Activities {
		copied.Activities[i] = a.Clone()
	}

	return copied
}
