//go:build !windows

package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
)

const KEY_POLL = 5 * time.Millisecond

// Run puts stdin in raw non-blocking mode and feeds keys until ctx is done
// or a quit key arrives. Without a terminal it just waits.
func (k *Keyboard) Run(ctx context.Context) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		<-ctx.Done()
		return nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("keyboard: raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)
	if err := syscall.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("keyboard: nonblocking stdin: %w", err)
	}
	defer syscall.SetNonblock(fd, false)

	buf := make([]byte, 1)
	for ctx.Err() == nil {
		n, err := syscall.Read(fd, buf)
		if n > 0 {
			if err := k.Key(buf[0]); err != nil {
				return err
			}
			continue
		}
		if err == nil || err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(KEY_POLL)
			continue
		}
		return fmt.Errorf("keyboard: %w", err)
	}
	return nil
}
