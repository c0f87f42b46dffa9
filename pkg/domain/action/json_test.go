package action_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/resq-lab/rollcall/pkg/domain/action"
	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
)

func TestActionJSON(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	t.Run("participant update round-trips", func(t *testing.T) {
		id := types.NewActivityID()
		act := action.ParticipantUpdate(id, "p1", "Ada", "Lovelace", "org-a", now, types.StatusSignedIn)

		data, err := json.Marshal(act)
		gt.NoError(t, err).Required()

		var decoded action.Action
		gt.NoError(t, json.Unmarshal(data, &decoded)).Required()

		p, ok := decoded.Payload.(action.ParticipantUpdatePayload)
		gt.Bool(t, ok).True()
		gt.Value(t, p.ActivityID).Equal(id)
		gt.Value(t, p.ParticipantID).Equal(types.ParticipantID("p1"))
		gt.Value(t, p.Status).Equal(types.StatusSignedIn)
		gt.Value(t, p.Time).Equal(now)
		gt.Bool(t, decoded.Meta.Sync).True()
	})

	t.Run("reload round-trips with nested state", func(t *testing.T) {
		id := types.NewActivityID()
		a := model.NewActivity(id)
		a.Title = "Flood Response"
		act := action.Reload(&model.ActivityState{Activities: []*model.Activity{a}})

		data, err := json.Marshal(act)
		gt.NoError(t, err).Required()

		var decoded action.Action
		gt.NoError(t, json.Unmarshal(data, &decoded)).Required()

		p, ok := decoded.Payload.(action.ReloadPayload)
		gt.Bool(t, ok).True()
		gt.Value(t, p.State).NotNil().Required()
		gt.Array(t, p.State.Activities).Length(1)
		gt.Value(t, p.State.Activities[0].Title).Equal("Flood Response")
		gt.Bool(t, decoded.Meta.Sync).False()
	})

	t.Run("type tag matches payload kind", func(t *testing.T) {
		act := action.Remove(types.NewActivityID())
		data, err := json.Marshal(act)
		gt.NoError(t, err).Required()

		var env struct {
			Type string `json:"type"`
		}
		gt.NoError(t, json.Unmarshal(data, &env)).Required()
		gt.Value(t, env.Type).Equal("remove")
	})

	t.Run("unknown type is a decode error", func(t *testing.T) {
		var decoded action.Action
		err := json.Unmarshal([]byte(`{"type":"explode","payload":{},"meta":{"sync":true}}`), &decoded)
		gt.Error(t, err)
	})

	t.Run("payloadless action is a marshal error", func(t *testing.T) {
		_, err := json.Marshal(action.Action{})
		gt.Error(t, err)
	})
}

func TestActionSyncDefaults(t *testing.T) {
	id := types.NewActivityID()
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	syncActions := []action.Action{
		action.Update(action.ActivityPatch{ID: id}),
		action.Remove(id),
		action.Reactivate(id),
		action.Complete(id, now),
		action.AppendOrgTimeline(id, action.OrgPatch{ID: "org-a"}, model.OrgStatusUpdate{Time: now, Status: types.OrgStatusStandby}),
		action.ParticipantUpdate(id, "p1", "Ada", "Lovelace", "org-a", now, types.StatusStandby),
	}
	for _, act := range syncActions {
		gt.Bool(t, act.Meta.Sync).True()
	}

	localActions := []action.Action{
		action.Reload(nil),
		action.TagParticipant(id, "p1", []string{"driver"}),
	}
	for _, act := range localActions {
		gt.Bool(t, act.Meta.Sync).False()
	}
}
