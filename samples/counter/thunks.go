package counter

import (
	"context"
	"time"

	"github.com/weegigs/wee-store-go/ws"
)

const AsyncDelay = 1000 * time.Millisecond

type Scheduler = ws.Scheduler[Action]

// IncrementAsync describes adding amount to the counter once AsyncDelay has
// elapsed.
func IncrementAsync(amount int) ws.Delayed[Action] {
	return ws.After[Action](AsyncDelay, IncrementByAmount{Amount: amount})
}

// ScheduleIncrement dispatches IncrementByAmount(amount) once, after AsyncDelay.
func ScheduleIncrement(scheduler *Scheduler, amount int, dispatch ws.ActionSink[Action]) {
	scheduler.Schedule(IncrementAsync(amount), dispatch)
}

// AsyncTask maps an action received for deferred execution to its delayed
// form. Only IncrementByAmount may be deferred.
func AsyncTask(_ context.Context, action Action) (ws.Delayed[Action], bool) {
	add, ok := action.(IncrementByAmount)
	if !ok {
		return ws.Delayed[Action]{}, false
	}

	return IncrementAsync(add.Amount), true
}
