package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxBackpressureAndFIFO(t *testing.T) {
	m := NewMailbox()
	ctx := context.Background()

	for i := 0; i < Capacity; i++ {
		require.NoError(t, m.Send(ctx, RemoteCommand{Code: uint32(i)}))
	}
	assert.Equal(t, Capacity, m.Len())

	sent := make(chan error, 1)
	go func() { sent <- m.Send(ctx, RemoteCommand{Code: Capacity}) }()

	select {
	case <-sent:
		t.Fatal("9th send completed while the mailbox was full")
	case <-time.After(50 * time.Millisecond):
	}

	ev, ok := m.TryReceive()
	require.True(t, ok)
	assert.Equal(t, RemoteCommand{Code: 0}, ev)

	select {
	case err := <-sent:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("9th send still blocked after a slot was freed")
	}

	for i := 1; i <= Capacity; i++ {
		ev, ok := m.TryReceive()
		require.True(t, ok)
		assert.Equal(t, RemoteCommand{Code: uint32(i)}, ev)
	}
	_, ok = m.TryReceive()
	assert.False(t, ok)
}

func TestMailboxTryReceiveEmpty(t *testing.T) {
	ev, ok := NewMailbox().TryReceive()
	assert.False(t, ok)
	assert.Nil(t, ev)
}

func TestMailboxSendCancelled(t *testing.T) {
	m := NewMailbox()
	for i := 0; i < Capacity; i++ {
		require.NoError(t, m.Send(context.Background(), ShortPress{}))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Send(ctx, LongPress{}), context.DeadlineExceeded)
	assert.Equal(t, Capacity, m.Len())
}

func TestMailboxConcurrentProducersLoseNothing(t *testing.T) {
	m := NewMailbox()
	ctx := context.Background()
	const producers, each = 4, 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				_ = m.Send(ctx, RemoteCommand{Code: uint32(p*1000 + i)})
			}
		}(p)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	last := map[int]int{0: -1, 1: -1, 2: -1, 3: -1}
	got := 0
	deadline := time.After(5 * time.Second)
	for got < producers*each {
		ev, ok := m.TryReceive()
		if !ok {
			select {
			case <-deadline:
				t.Fatalf("received %d of %d events", got, producers*each)
			default:
			}
			time.Sleep(time.Millisecond)
			continue
		}
		code := int(ev.(RemoteCommand).Code)
		p, i := code/1000, code%1000
		assert.Greater(t, i, last[p], "per-producer order")
		last[p] = i
		got++
	}
	<-done
}
