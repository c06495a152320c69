package counter

import (
	"github.com/benbjohnson/clock"
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/weegigs/wee-store-go/journal"
	"github.com/weegigs/wee-store-go/ws"
)

const Stream = journal.Stream("counter")

type Store = ws.Store[Counter, Action]

// NewStore creates a counter store at its initial value. Every dispatch is
// logged and recorded in the journal.
func NewStore(j journal.Journal, log *zerolog.Logger, clk clock.Clock) *Store {
	return ws.NewStore(
		ws.StoreDescriptor[Counter, Action]{
			Name:    Counter{}.TypeName(),
			Initial: Initial(),
			Reducer: Reducer(),
			Middleware: []ws.Middleware[Counter, Action]{
				ws.Logging[Counter, Action](log),
				journal.Record[Counter, Action](j, Stream, log),
			},
		},
		ws.WithClock(clk),
		ws.WithLogger(log),
	)
}

func NewScheduler(clk clock.Clock, log *zerolog.Logger) *Scheduler {
	return ws.NewScheduler[Action](ws.SchedulerClock(clk), ws.SchedulerLogger(log))
}

func Clock() clock.Clock {
	return clock.New()
}

var Service = wire.NewSet(
	Clock,
	NewStore,
	NewScheduler,
)

var Live = wire.NewSet(Service, journal.Live)

var Local = wire.NewSet(Service, journal.Local)

var Memory = wire.NewSet(Service, journal.Memory)
