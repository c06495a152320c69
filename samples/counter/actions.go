package counter

import (
	"github.com/weegigs/wee-store-go/ws"
)

const (
	IncrementAction         = ws.ActionName("counter/increment")
	DecrementAction         = ws.ActionName("counter/decrement")
	IncrementByAmountAction = ws.ActionName("counter/incrementByAmount")
)

// Action is one of Increment, Decrement or IncrementByAmount. The set is closed:
// the marker method is unexported.
type Action interface {
	TypeName() string
	counterAction()
}

type Increment struct{}

func (Increment) TypeName() string { return IncrementAction.String() }
func (Increment) counterAction()   {}

type Decrement struct{}

func (Decrement) TypeName() string { return DecrementAction.String() }
func (Decrement) counterAction()   {}

type IncrementByAmount struct {
	Amount int `json:"amount"`
}

func (IncrementByAmount) TypeName() string { return IncrementByAmountAction.String() }
func (IncrementByAmount) counterAction()   {}

// Decoders decodes remote counter actions. IncrementByAmount takes the amount
// as its payload.
func Decoders() ws.ActionDecoders[Action] {
	return ws.ActionDecoders[Action]{
		IncrementAction: ws.Unit[Action](Increment{}),
		DecrementAction: ws.Unit[Action](Decrement{}),
		IncrementByAmountAction: ws.PayloadOf(func(amount int) Action {
			return IncrementByAmount{Amount: amount}
		}),
	}
}
