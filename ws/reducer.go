package ws

// Reducer computes the next state from the current state and an action. It must
// not mutate state and must not have side effects.
type Reducer[S any, A any] interface {
	Reduce(state S, action A) S
}

type ReducerFunction[S any, A any] func(state S, action A) S

func (f ReducerFunction[S, A]) Reduce(state S, action A) S {
	return f(state, action)
}
