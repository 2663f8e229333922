//go:build !linux

package producer

import "errors"

func raisePriority(int) error {
	return errors.New("thread priority not supported on this platform")
}
