package wshttp

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/goccy/go-json"

	"github.com/weegigs/wee-store-go/ws"
)

type StateSerializer[S any] func(state S) (map[string]any, error)

// JSONStateSerializer serializes the state as a JSON object.
func JSONStateSerializer[S any](state S) (map[string]any, error) {
	serialized, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}

	resource := make(map[string]any)
	if err = json.Unmarshal(serialized, &resource); err != nil {
		return nil, err
	}

	return resource, nil
}

// ResourceEncoder writes a snapshot as a JSON resource annotated with $type,
// $revision and $timestamp.
type ResourceEncoder[S any] struct {
	Serializer StateSerializer[S]
}

func (encoder ResourceEncoder[S]) Encode(w http.ResponseWriter, r *http.Request, name string, snapshot ws.Snapshot[S]) error {
	serialize := encoder.Serializer
	if serialize == nil {
		serialize = JSONStateSerializer[S]
	}

	resource, err := serialize(snapshot.State)
	if err != nil {
		http.Error(w, "failed to encode state", http.StatusInternalServerError)
		return err
	}

	resource["$type"] = name
	resource["$revision"] = snapshot.Revision
	if snapshot.Initialized() {
		resource["$timestamp"] = snapshot.Revision.Timestamp()
	}

	render.JSON(w, r, resource)

	return nil
}
