package ws

import (
	"context"
)

type ActionName string

func (n ActionName) String() string {
	return string(n)
}

// ActionSink accepts an action for processing. Store.Sink returns the store's
// dispatch entry point in this form.
type ActionSink[A any] func(ctx context.Context, action A)

func ActionNameOf(action any) ActionName {
	switch a := action.(type) {
	case RemoteAction:
		return a.Type
	case *RemoteAction:
		return a.Type
	default:
		return ActionName(NameOf(action))
	}
}
