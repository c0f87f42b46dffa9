package action

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

type envelope struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Meta    Meta            `json:"meta"`
}

// MarshalJSON encodes the action as {type, payload, meta}.
func (x Action) MarshalJSON() ([]byte, error) {
	if x.Payload == nil {
		return nil, goerr.New("action has no payload")
	}

	raw, err := json.Marshal(x.Payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal action payload", goerr.V("kind", x.Payload.Kind()))
	}

	return json.Marshal(envelope{
		Type:    x.Payload.Kind(),
		Payload: raw,
		Meta:    x.Meta,
	})
}

// UnmarshalJSON decodes the envelope and dispatches on the type tag.
// An unrecognized type is a decode error, not a silent skip.
func (x *Action) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return goerr.Wrap(err, "failed to unmarshal action envelope")
	}

	payload, err := decodePayload(env.Type, env.Payload)
	if err != nil {
		return err
	}

	x.Payload = payload
	x.Meta = env.Meta
	return nil
}

func decodeAs[T Payload](raw json.RawMessage) (Payload, error) {
	var p T
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal action payload", goerr.V("kind", p.Kind()))
	}
	return p, nil
}

func decodePayload(kind Kind, raw json.RawMessage) (Payload, error) {
	switch kind {
	case KindReload:
		return decodeAs[ReloadPayload](raw)
	case KindUpdate:
		return decodeAs[UpdatePayload](raw)
	case KindRemove:
		return decodeAs[RemovePayload](raw)
	case KindReactivate:
		return decodeAs[ReactivatePayload](raw)
	case KindComplete:
		return decodeAs[CompletePayload](raw)
	case KindAppendOrgTimeline:
		return decodeAs[AppendOrgTimelinePayload](raw)
	case KindParticipantUpdate:
		return decodeAs[ParticipantUpdatePayload](raw)
	case KindTagParticipant:
		return decodeAs[TagParticipantPayload](raw)
	default:
		return nil, goerr.New("unknown action type", goerr.V("type", kind))
	}
}
