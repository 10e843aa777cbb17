//go:build headless

package main

import (
	"context"
	"time"

	"github.com/intuitionamiga/m32"
)

const HEADLESS_PERIOD = 10 * time.Millisecond

var defaultBackend = "headless"

func init() {
	registerBackend("headless", newHeadlessBackend)
}

// headlessBackend renders in real time and discards the frames, for CI
// machines and servers with no audio device.
type headlessBackend struct {
	rate int
}

func newHeadlessBackend(rate int) (Backend, error) {
	return &headlessBackend{rate: rate}, nil
}

func (b *headlessBackend) Play(ctx context.Context, g m32.Graph) error {
	frames := b.rate * int(HEADLESS_PERIOD/time.Millisecond) / 1000
	buf := make([]int16, 2*frames)
	ticker := time.NewTicker(HEADLESS_PERIOD)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m32.Render(g, buf)
		}
	}
}
