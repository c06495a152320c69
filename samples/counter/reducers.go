package counter

import "github.com/weegigs/wee-store-go/ws"

// Reduce computes the next counter state. It is total over Action and always
// returns a new value.
func Reduce(state Counter, action Action) Counter {
	switch a := action.(type) {
	case Increment:
		return Counter{Value: state.Value + 1}
	case Decrement:
		return Counter{Value: state.Value - 1}
	case IncrementByAmount:
		return Counter{Value: state.Value + a.Amount}
	}

	return Counter{Value: state.Value}
}

func Reducer() ws.Reducer[Counter, Action] {
	return ws.ReducerFunction[Counter, Action](Reduce)
}
