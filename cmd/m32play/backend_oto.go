//go:build !headless

package main

import (
	"context"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/intuitionamiga/m32"
)

const OTO_BUFFER = 40 * time.Millisecond

var defaultBackend = "oto"

func init() {
	registerBackend("oto", newOtoBackend)
}

type otoBackend struct {
	ctx *oto.Context
}

func newOtoBackend(rate int) (Backend, error) {
	op := &oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   OTO_BUFFER,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return &otoBackend{ctx: ctx}, nil
}

func (b *otoBackend) Play(ctx context.Context, g m32.Graph) error {
	r := newGraphReader(g)
	player := b.ctx.NewPlayer(r)
	player.Play()
	<-ctx.Done()
	r.Detach()
	return player.Close()
}
