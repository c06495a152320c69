// Package journal records dispatched actions as an append-only audit trail.
// Journals are written by store middleware and are never replayed into a store.
package journal

import (
	"context"
	"errors"

	"github.com/weegigs/wee-store-go/ws"
)

const tracerName = "wee-store-journal"

// Stream names the store a set of entries belongs to.
type Stream string

func (s Stream) String() string {
	return string(s)
}

// Entry is one dispatched action and the revision it produced.
type Entry struct {
	Stream    Stream        `json:"stream"`
	Revision  ws.Revision   `json:"revision"`
	Action    ws.ActionName `json:"action"`
	Timestamp ws.Timestamp  `json:"timestamp"`
	Data      ws.Data       `json:"data"`
}

type Journal interface {
	Append(ctx context.Context, entries ...Entry) error
	Read(ctx context.Context, stream Stream) ([]Entry, error)
}

var DuplicateEntry = errors.New("duplicate-entry")

var EmptyAppend = errors.New("attempted to append an empty list of entries")
