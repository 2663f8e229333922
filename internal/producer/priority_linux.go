//go:build linux

package producer

import "golang.org/x/sys/unix"

// raisePriority sets the niceness of the calling thread. The caller must
// have locked its goroutine to the thread.
func raisePriority(niceness int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), niceness)
}
