package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
)

func TestActivityClone(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	a := model.NewActivity(types.NewActivityID())
	a.Title = "Original"
	end := now
	a.EndTime = &end
	a.Participants["p1"] = &model.Participant{
		ID:   "p1",
		Tags: []string{"driver"},
		Timeline: []model.ParticipantUpdate{
			{Time: now, OrganizationID: "org-a", Status: types.StatusSignedIn},
		},
	}
	a.Organizations["org-a"] = &model.ParticipatingOrg{
		ID:       "org-a",
		Title:    "Search Team",
		Timeline: []model.OrgStatusUpdate{{Time: now, Status: types.OrgStatusResponding}},
	}

	clone := a.Clone()

	// Mutations of the clone must not reach the original.
	clone.Title = "Changed"
	*clone.EndTime = now.Add(time.Hour)
	clone.Participants["p1"].Tags[0] = "medic"
	clone.Participants["p1"].Timeline[0].Status = types.StatusSignedOut
	clone.Organizations["org-a"].Timeline[0].Status = types.OrgStatusCleared
	clone.Participants["p2"] = &model.Participant{ID: "p2"}

	gt.Value(t, a.Title).Equal("Original")
	gt.Value(t, *a.EndTime).Equal(now)
	gt.Value(t, a.Participants["p1"].Tags[0]).Equal("driver")
	gt.Value(t, a.Participants["p1"].Timeline[0].Status).Equal(types.StatusSignedIn)
	gt.Value(t, a.Organizations["org-a"].Timeline[0].Status).Equal(types.OrgStatusResponding)
	gt.Value(t, a.Participants["p2"]).Nil()
}

func TestParticipantTimeline(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	p := &model.Participant{ID: "p1"}

	gt.Value(t, p.Current()).Nil()

	p.Prepend(model.ParticipantUpdate{Time: now, OrganizationID: "org-a", Status: types.StatusStandby})
	p.Prepend(model.ParticipantUpdate{Time: now.Add(time.Hour), OrganizationID: "org-a", Status: types.StatusSignedIn})

	// Newest entry is the head.
	gt.Value(t, p.Current().Status).Equal(types.StatusSignedIn)
	gt.Array(t, p.Timeline).Length(2)
	gt.Value(t, p.Timeline[1].Status).Equal(types.StatusStandby)
}

func TestActivityStateFindRemove(t *testing.T) {
	idA := types.NewActivityID()
	idB := types.NewActivityID()
	state := &model.ActivityState{Activities: []*model.Activity{
		model.NewActivity(idA),
		model.NewActivity(idB),
	}}

	gt.Value(t, state.Find(idA)).NotNil()
	gt.Value(t, state.Find("missing")).Nil()

	state.Remove(idA)
	gt.Value(t, state.Find(idA)).Nil()
	gt.Array(t, state.Activities).Length(1)

	state.Remove(idA)
	gt.Array(t, state.Activities).Length(1)
}
