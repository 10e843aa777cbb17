//go:build !headless

package main

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/intuitionamiga/m32"
)

const EBITEN_BUFFER = 50 * time.Millisecond

func init() {
	registerBackend("ebiten", newEbitenBackend)
}

type ebitenBackend struct {
	ctx *audio.Context
}

func newEbitenBackend(rate int) (Backend, error) {
	return &ebitenBackend{ctx: audio.NewContext(rate)}, nil
}

// Play hands ebiten a 16-bit stereo stream, the format its NewPlayer
// expects.
func (b *ebitenBackend) Play(ctx context.Context, g m32.Graph) error {
	r := newGraphReader(g)
	player, err := b.ctx.NewPlayer(r)
	if err != nil {
		return err
	}
	player.SetBufferSize(EBITEN_BUFFER)
	player.Play()
	<-ctx.Done()
	r.Detach()
	return player.Close()
}
