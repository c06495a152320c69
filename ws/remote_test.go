package ws

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

var tallyDecoders = ActionDecoders[tallyAction]{
	"tally/add":   PayloadOf(func(amount int) tallyAction { return add{Amount: amount} }),
	"tally/reset": Unit[tallyAction](reset{}),
}

func TestDecodeRemoteAction(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes payload", func(t *testing.T) {
		var remote RemoteAction
		assert.NoError(t, json.Unmarshal([]byte(`{"type":"tally/add","payload":7}`), &remote))

		action, err := tallyDecoders.Decode(ctx, remote)
		assert.NoError(t, err)
		assert.Equal(t, add{Amount: 7}, action)
	})

	t.Run("decodes unit actions", func(t *testing.T) {
		action, err := tallyDecoders.Decode(ctx, RemoteAction{Type: "tally/reset"})
		assert.NoError(t, err)
		assert.Equal(t, reset{}, action)
	})

	t.Run("rejects unknown actions", func(t *testing.T) {
		_, err := tallyDecoders.Decode(ctx, RemoteAction{Type: "tally/multiply"})
		assert.Equal(t, ActionNotFound("tally/multiply"), err)
	})

	t.Run("rejects missing payload", func(t *testing.T) {
		_, err := tallyDecoders.Decode(ctx, RemoteAction{Type: "tally/add"})
		assert.Error(t, err)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		_, err := tallyDecoders.Decode(ctx, RemoteAction{Type: "tally/add", Payload: []byte(`"seven"`)})
		assert.Error(t, err)
	})
}
