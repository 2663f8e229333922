package event

import "context"

// Capacity is the number of events the mailbox holds before senders block.
const Capacity = 8

// Mailbox is a bounded multi-producer, single-consumer FIFO.
//
// Send blocks while the mailbox is full; events are never dropped.
// TryReceive never blocks. Safe for concurrent senders without external
// locking; only one goroutine may receive.
type Mailbox struct {
	ch chan Event
}

func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan Event, Capacity)}
}

// Send enqueues ev, waiting for a free slot. It only fails when ctx is
// done, which happens at shutdown.
func (m *Mailbox) Send(ctx context.Context, ev Event) error {
	select {
	case m.ch <- ev:
		return nil
	default:
	}
	select {
	case m.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryReceive returns the oldest event, or false if the mailbox is empty.
func (m *Mailbox) TryReceive() (Event, bool) {
	select {
	case ev := <-m.ch:
		return ev, true
	default:
		return nil, false
	}
}

// Len reports the number of queued events.
func (m *Mailbox) Len() int { return len(m.ch) }
