//go:build windows

package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"
)

// Run puts the console in raw mode and feeds keys until ctx is done or a
// quit key arrives. The blocking reader goroutine is left behind on exit.
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

	keys := make(chan byte, 16)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			if n > 0 {
				keys <- buf[0]
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-keys:
			if !ok {
				<-ctx.Done()
				return nil
			}
			if err := k.Key(b); err != nil {
				return err
			}
		}
	}
}
