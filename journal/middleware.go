package journal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/weegigs/wee-store-go/ws"
)

// Record appends every dispatched action to the journal once the store has
// applied it. Journal failures are logged and do not affect the dispatch.
func Record[S any, A any](journal Journal, stream Stream, log *zerolog.Logger) ws.Middleware[S, A] {
	return func(next ws.DispatchFunc[S, A]) ws.DispatchFunc[S, A] {
		return func(ctx context.Context, action A) ws.Snapshot[S] {
			snapshot := next(ctx, action)

			name := ws.ActionNameOf(action)
			ctx, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("journal %s", name))
			defer span.End()

			data, err := ws.MarshalToData(action)
			if err != nil {
				span.RecordError(err)
				log.Warn().Err(err).Str("action", name.String()).Msg("failed to encode action for journal")
				return snapshot
			}

			entry := Entry{
				Stream:    stream,
				Revision:  snapshot.Revision,
				Action:    name,
				Timestamp: snapshot.Revision.Timestamp(),
				Data:      data,
			}

			if err := journal.Append(ctx, entry); err != nil {
				span.RecordError(err)
				log.Error().Err(err).
					Str("stream", stream.String()).
					Str("revision", snapshot.Revision.String()).
					Msg("failed to append journal entry")
			}

			return snapshot
		}
	}
}
