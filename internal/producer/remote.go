package producer

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledmatrix/internal/event"
	"github.com/coreman2200/ledmatrix/internal/ir"
)

// DefaultNiceness is the scheduling priority requested for the remote
// decoder thread.
const DefaultNiceness = -10

// Remote feeds receiver edges to a decoder and publishes every complete
// code as a RemoteCommand. Invalid and partial transmissions are dropped.
//
// Run pins itself to an OS thread and raises that thread's priority so edge
// handling is not delayed behind rendering. Failing to raise the priority
// is logged and otherwise ignored.
type Remote struct {
	Edges    <-chan ir.Edge
	Decoder  ir.Decoder
	Out      Sender
	Log      zerolog.Logger
	Niceness int
}

func (r *Remote) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if r.Niceness != 0 {
		if err := raisePriority(r.Niceness); err != nil {
			r.Log.Warn().Err(err).Int("niceness", r.Niceness).Msg("remote decoder runs at normal priority")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-r.Edges:
			if !ok {
				return nil
			}
			code, ok := r.Decoder.Edge(e.At, e.Rising)
			if !ok {
				continue
			}
			r.Log.Debug().Uint32("code", code).Msg("remote code")
			if err := r.Out.Send(ctx, event.RemoteCommand{Code: code}); err != nil {
				return nil
			}
		}
	}
}

// EdgeBuffer is the edge channel depth used by LineEdges. One NEC frame is
// 68 edges.
const EdgeBuffer = 256
