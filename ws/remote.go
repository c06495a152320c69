package ws

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// RemoteAction is the serialized form of an action, as received over the wire:
//
//	{"type": "counter/incrementByAmount", "payload": 7}
type RemoteAction struct {
	Type    ActionName      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ActionDecoder turns the payload of a remote action into a concrete action.
type ActionDecoder[A any] func(ctx context.Context, payload []byte) (A, error)

type ActionDecoders[A any] map[ActionName]ActionDecoder[A]

// Decode resolves the decoder registered for the remote action's type and
// applies it to the payload.
func (d ActionDecoders[A]) Decode(ctx context.Context, remote RemoteAction) (A, error) {
	decoder, ok := d[remote.Type]
	if !ok {
		var empty A
		return empty, ActionNotFound(remote.Type)
	}

	action, err := decoder(ctx, remote.Payload)
	if err != nil {
		var empty A
		return empty, errors.Wrap(err, fmt.Sprintf("failed to decode %s", remote.Type))
	}

	return action, nil
}

// Unit decodes actions that carry no payload. Any payload present is ignored.
func Unit[A any](action A) ActionDecoder[A] {
	return func(context.Context, []byte) (A, error) {
		return action, nil
	}
}

// PayloadOf decodes the payload as P and builds the action from it.
func PayloadOf[A any, P any](build func(payload P) A) ActionDecoder[A] {
	return func(ctx context.Context, data []byte) (A, error) {
		var payload P
		if len(data) == 0 {
			var empty A
			return empty, errors.New("missing payload")
		}

		if err := json.UnmarshalContext(ctx, data, &payload); err != nil {
			var empty A
			return empty, err
		}

		return build(payload), nil
	}
}
