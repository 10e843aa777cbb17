//go:build portaudio && !headless

package main

import (
	"context"
	"fmt"

	pa "github.com/gordonklaus/portaudio"

	"github.com/intuitionamiga/m32"
)

const PORTAUDIO_FRAMES = 512

func init() {
	registerBackend("portaudio", newPortaudioBackend)
}

type portaudioBackend struct {
	rate int
}

func newPortaudioBackend(rate int) (Backend, error) {
	if err := pa.Initialize(); err != nil {
		return nil, err
	}
	return &portaudioBackend{rate: rate}, nil
}

// Play writes blocking interleaved buffers, rendering each one just
// before it is queued.
func (b *portaudioBackend) Play(ctx context.Context, g m32.Graph) (err error) {
	defer func() {
		if terr := pa.Terminate(); terr != nil && err == nil {
			err = terr
		}
	}()
	buf := make([]int16, 2*PORTAUDIO_FRAMES)
	stream, err := pa.OpenDefaultStream(0, 2, float64(b.rate), PORTAUDIO_FRAMES, &buf)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop()

	for ctx.Err() == nil {
		m32.Render(g, buf)
		if err := stream.Write(); err != nil && err != pa.OutputUnderflowed {
			return fmt.Errorf("write: %w", err)
		}
	}
	return nil
}
