package ws

import (
	"context"

	"github.com/rs/zerolog"
)

// DispatchFunc applies an action and returns the snapshot it produced.
type DispatchFunc[S any, A any] func(ctx context.Context, action A) Snapshot[S]

// Middleware wraps dispatch. Middleware registered first runs outermost.
type Middleware[S any, A any] func(next DispatchFunc[S, A]) DispatchFunc[S, A]

func chain[S any, A any](middleware []Middleware[S, A], dispatch DispatchFunc[S, A]) DispatchFunc[S, A] {
	for i := len(middleware) - 1; i >= 0; i-- {
		dispatch = middleware[i](dispatch)
	}

	return dispatch
}

// Logging logs every dispatched action with the revision it produced.
func Logging[S any, A any](log *zerolog.Logger) Middleware[S, A] {
	return func(next DispatchFunc[S, A]) DispatchFunc[S, A] {
		return func(ctx context.Context, action A) Snapshot[S] {
			snapshot := next(ctx, action)

			log.Debug().
				Str("action", ActionNameOf(action).String()).
				Str("revision", snapshot.Revision.String()).
				Interface("state", snapshot.State).
				Msg("dispatched")

			return snapshot
		}
	}
}
