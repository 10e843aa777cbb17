package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/intuitionamiga/m32"
)

// Backend drives an output device from a graph.
type Backend interface {
	// Play pulls frames from g until ctx is done.
	Play(ctx context.Context, g m32.Graph) error
}

var backends = map[string]func(rate int) (Backend, error){}

func registerBackend(name string, open func(rate int) (Backend, error)) {
	backends[name] = open
}

func backendNames() string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func openBackend(name string, rate int) (Backend, error) {
	open, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (have %s)", name, backendNames())
	}
	b, err := open(rate)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", name, err)
	}
	return b, nil
}

type graphHolder struct{ g m32.Graph }

// graphReader is the io.Reader the pull backends consume: interleaved
// 16-bit little-endian stereo. The graph is swapped atomically so Read
// never takes a lock of its own.
type graphReader struct {
	graph atomic.Pointer[graphHolder]
}

func newGraphReader(g m32.Graph) *graphReader {
	r := &graphReader{}
	r.graph.Store(&graphHolder{g})
	return r
}

func (r *graphReader) Read(p []byte) (int, error) {
	h := r.graph.Load()
	if h == nil {
		clear(p)
		return len(p), nil
	}
	return m32.RenderBytes(h.g, p), nil
}

// Detach makes further reads silent.
func (r *graphReader) Detach() { r.graph.Store(nil) }
