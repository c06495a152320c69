package ws

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "wee-store"

// Snapshot is a state value together with the revision it was stored under.
type Snapshot[S any] struct {
	State    S
	Revision Revision
}

func (s Snapshot[S]) Initialized() bool {
	return s.Revision != InitialRevision
}

type Listener[S any] func(snapshot Snapshot[S])

type Unsubscribe func()

// Readable is the read side of a store.
type Readable[S any] interface {
	State() S
	Snapshot() Snapshot[S]
	Subscribe(listener Listener[S]) Unsubscribe
}

// Container is a store as seen by its consumers.
type Container[S any, A any] interface {
	Readable[S]
	Name() string
	Dispatch(ctx context.Context, action A) S
}

// StoreDescriptor describes the slice of state held by a store.
type StoreDescriptor[S any, A any] struct {
	Name       string
	Initial    S
	Reducer    Reducer[S, A]
	Middleware []Middleware[S, A]
}

type StoreOption func(options *storeOptions)

type storeOptions struct {
	clock clock.Clock
	log   *zerolog.Logger
}

func WithClock(clock clock.Clock) StoreOption {
	return func(options *storeOptions) {
		options.clock = clock
	}
}

func WithLogger(log *zerolog.Logger) StoreOption {
	return func(options *storeOptions) {
		options.log = log
	}
}

// Store holds a single state value. The value only changes by dispatching an
// action, which applies the reducer exactly once. Dispatches are serialized.
type Store[S any, A any] struct {
	name     string
	reducer  Reducer[S, A]
	dispatch DispatchFunc[S, A]
	clock    clock.Clock
	revision *RevisionGenerator
	log      *zerolog.Logger

	mu sync.Mutex

	lk        sync.RWMutex
	current   Snapshot[S]
	listeners []*subscription[S]
}

type subscription[S any] struct {
	listener Listener[S]
}

func NewStore[S any, A any](descriptor StoreDescriptor[S, A], options ...StoreOption) *Store[S, A] {
	opts := &storeOptions{}
	for _, option := range options {
		option(opts)
	}

	if opts.clock == nil {
		opts.clock = clock.New()
	}

	if opts.log == nil {
		opts.log = &log.Logger
	}

	name := descriptor.Name
	if name == "" {
		var state S
		name = NameOf(state)
	}

	store := &Store[S, A]{
		name:     name,
		reducer:  descriptor.Reducer,
		clock:    opts.clock,
		revision: NewRevisionGenerator(),
		log:      opts.log,
		current: Snapshot[S]{
			State:    descriptor.Initial,
			Revision: InitialRevision,
		},
	}

	store.dispatch = chain(descriptor.Middleware, store.reduce)

	return store
}

func (s *Store[S, A]) Name() string {
	return s.name
}

func (s *Store[S, A]) State() S {
	return s.Snapshot().State
}

func (s *Store[S, A]) Revision() Revision {
	return s.Snapshot().Revision
}

func (s *Store[S, A]) Snapshot() Snapshot[S] {
	s.lk.RLock()
	defer s.lk.RUnlock()

	return s.current
}

// Dispatch submits an action and returns the resulting state. Listeners are
// notified before Dispatch returns and must not dispatch synchronously.
func (s *Store[S, A]) Dispatch(ctx context.Context, action A) S {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dispatch(ctx, action).State
}

// Sink returns Dispatch as an ActionSink.
func (s *Store[S, A]) Sink() ActionSink[A] {
	return func(ctx context.Context, action A) {
		s.Dispatch(ctx, action)
	}
}

func (s *Store[S, A]) Subscribe(listener Listener[S]) Unsubscribe {
	sub := &subscription[S]{listener: listener}

	s.lk.Lock()
	s.listeners = append(s.listeners, sub)
	s.lk.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lk.Lock()
			defer s.lk.Unlock()

			for i, candidate := range s.listeners {
				if candidate == sub {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store[S, A]) reduce(ctx context.Context, action A) Snapshot[S] {
	name := ActionNameOf(action)
	_, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("dispatch %s", name))
	defer span.End()

	previous := s.Snapshot()
	next := Snapshot[S]{
		State:    s.reducer.Reduce(previous.State, action),
		Revision: s.revision.NewRevision(s.clock.Now()),
	}

	span.SetAttributes(
		attribute.String("store", s.name),
		attribute.String("revision", next.Revision.String()),
	)

	s.lk.Lock()
	s.current = next
	listeners := make([]*subscription[S], len(s.listeners))
	copy(listeners, s.listeners)
	s.lk.Unlock()

	s.log.Trace().
		Str("store", s.name).
		Str("action", name.String()).
		Str("revision", next.Revision.String()).
		Int("listeners", len(listeners)).
		Msg("reduced")

	for _, sub := range listeners {
		sub.listener(next)
	}

	return next
}
