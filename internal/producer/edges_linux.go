//go:build linux

package producer

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/warthog618/go-gpiocdev"

	"github.com/coreman2200/ledmatrix/internal/ir"
)

// LineEdges requests a GPIO character-device line as a both-edge input and
// forwards its kernel-timestamped edges. Edges are dropped if the channel
// is full; the decoder resynchronises on the next leader.
func LineEdges(chip string, offset int, log zerolog.Logger) (io.Closer, <-chan ir.Edge, error) {
	ch := make(chan ir.Edge, EdgeBuffer)
	handler := func(evt gpiocdev.LineEvent) {
		e := ir.Edge{At: evt.Timestamp, Rising: evt.Type == gpiocdev.LineEventRisingEdge}
		select {
		case ch <- e:
		default:
			log.Warn().Msg("ir edge dropped")
		}
	}
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(handler),
		gpiocdev.WithConsumer("ledmatrix-ir"),
	)
	if err != nil {
		return nil, nil, err
	}
	return l, ch, nil
}
