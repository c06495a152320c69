package ws

// Selector is a pure projection from state to a derived value.
type Selector[S any, V any] func(state S) V

// Select reads the current state of a store through a selector.
func Select[S any, V any](store Readable[S], selector Selector[S, V]) V {
	return selector(store.State())
}
