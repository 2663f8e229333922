//go:build !linux

package producer

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledmatrix/internal/ir"
)

func LineEdges(string, int, zerolog.Logger) (io.Closer, <-chan ir.Edge, error) {
	return nil, nil, errors.New("gpio character devices require linux")
}
