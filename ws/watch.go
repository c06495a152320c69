package ws

import "sync"

// Watch calls onChange whenever the value selected from the store differs from
// the previously selected value. Notifications that leave the selected value
// unchanged are dropped.
func Watch[S any, V comparable](store Readable[S], selector Selector[S, V], onChange func(value V)) Unsubscribe {
	var lk sync.Mutex
	var last V

	lk.Lock()
	defer lk.Unlock()

	unsubscribe := store.Subscribe(func(snapshot Snapshot[S]) {
		value := selector(snapshot.State)

		lk.Lock()
		if value == last {
			lk.Unlock()
			return
		}
		last = value
		lk.Unlock()

		onChange(value)
	})

	last = selector(store.State())

	return unsubscribe
}
