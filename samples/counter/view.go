package counter

import (
	"context"
	"sync"

	"github.com/weegigs/wee-store-go/ws"
)

// Frame is what the counter view displays.
type Frame struct {
	Count      int
	AmountText string
}

type Renderer func(frame Frame)

// View binds the counter widget to a store. The count label follows the store
// through SelectCount and re-renders only when the count changes; the amount
// text is local to the view and never enters the store.
type View struct {
	store     ws.Container[Counter, Action]
	scheduler *Scheduler
	render    Renderer

	lk          sync.Mutex
	count       int
	amount      string
	unsubscribe ws.Unsubscribe
}

func NewView(store ws.Container[Counter, Action], scheduler *Scheduler, render Renderer) *View {
	view := &View{
		store:     store,
		scheduler: scheduler,
		render:    render,
		amount:    DefaultAmountText,
	}

	view.lk.Lock()
	view.unsubscribe = ws.Watch[Counter, int](store, SelectCount, view.countChanged)
	view.count = ws.Select[Counter, int](store, SelectCount)
	frame := view.frame()
	view.lk.Unlock()

	view.render(frame)

	return view
}

// Close detaches the view from the store.
func (v *View) Close() {
	v.unsubscribe()
}

func (v *View) Frame() Frame {
	v.lk.Lock()
	defer v.lk.Unlock()

	return v.frame()
}

func (v *View) Increment(ctx context.Context) {
	v.store.Dispatch(ctx, Increment{})
}

func (v *View) Decrement(ctx context.Context) {
	v.store.Dispatch(ctx, Decrement{})
}

func (v *View) SetAmountText(text string) {
	v.lk.Lock()
	if v.amount == text {
		v.lk.Unlock()
		return
	}
	v.amount = text
	frame := v.frame()
	v.lk.Unlock()

	v.render(frame)
}

// Amount is the amount text parsed as a number, or 0.
func (v *View) Amount() int {
	v.lk.Lock()
	defer v.lk.Unlock()

	return ParseAmount(v.amount)
}

func (v *View) AddAmount(ctx context.Context) {
	v.store.Dispatch(ctx, IncrementByAmount{Amount: v.Amount()})
}

func (v *View) AddAsync(ctx context.Context) {
	ScheduleIncrement(v.scheduler, v.Amount(), v.dispatch)
}

func (v *View) dispatch(ctx context.Context, action Action) {
	v.store.Dispatch(ctx, action)
}

func (v *View) countChanged(count int) {
	v.lk.Lock()
	if v.count == count {
		v.lk.Unlock()
		return
	}
	v.count = count
	frame := v.frame()
	v.lk.Unlock()

	v.render(frame)
}

func (v *View) frame() Frame {
	return Frame{Count: v.count, AmountText: v.amount}
}
