package ws

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Delayed is an action to be dispatched once Delay has elapsed. It is plain
// data; a Scheduler performs the dispatch.
type Delayed[A any] struct {
	Delay  time.Duration
	Action A
}

func After[A any](delay time.Duration, action A) Delayed[A] {
	return Delayed[A]{Delay: delay, Action: action}
}

type SchedulerOption func(options *schedulerOptions)

type schedulerOptions struct {
	clock clock.Clock
	ctx   context.Context
	log   *zerolog.Logger
}

func SchedulerClock(clock clock.Clock) SchedulerOption {
	return func(options *schedulerOptions) {
		options.clock = clock
	}
}

// SchedulerContext sets the context delayed dispatches run under. Delayed
// actions outlive the request that scheduled them, so this defaults to
// context.Background.
func SchedulerContext(ctx context.Context) SchedulerOption {
	return func(options *schedulerOptions) {
		options.ctx = ctx
	}
}

func SchedulerLogger(log *zerolog.Logger) SchedulerOption {
	return func(options *schedulerOptions) {
		options.log = log
	}
}

// Scheduler runs delayed actions against a sink. Every scheduled task fires
// exactly once; tasks cannot be cancelled.
type Scheduler[A any] struct {
	clock   clock.Clock
	ctx     context.Context
	log     *zerolog.Logger
	wg      sync.WaitGroup
	pending atomic.Int64
}

func NewScheduler[A any](options ...SchedulerOption) *Scheduler[A] {
	opts := &schedulerOptions{}
	for _, option := range options {
		option(opts)
	}

	if opts.clock == nil {
		opts.clock = clock.New()
	}

	if opts.ctx == nil {
		opts.ctx = context.Background()
	}

	if opts.log == nil {
		opts.log = &log.Logger
	}

	return &Scheduler[A]{
		clock: opts.clock,
		ctx:   opts.ctx,
		log:   opts.log,
	}
}

func (s *Scheduler[A]) Schedule(task Delayed[A], sink ActionSink[A]) {
	s.wg.Add(1)
	s.pending.Add(1)

	name := ActionNameOf(task.Action)
	s.log.Debug().Str("action", name.String()).Dur("delay", task.Delay).Msg("scheduled")

	s.clock.AfterFunc(task.Delay, func() {
		defer s.wg.Done()
		defer s.pending.Add(-1)

		sink(s.ctx, task.Action)
	})
}

// Pending returns the number of scheduled tasks that have not completed.
func (s *Scheduler[A]) Pending() int {
	return int(s.pending.Load())
}

// Wait blocks until all scheduled tasks have completed or ctx is done.
func (s *Scheduler[A]) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
