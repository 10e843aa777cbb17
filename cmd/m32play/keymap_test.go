package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/intuitionamiga/m32"
	"github.com/intuitionamiga/m32/internal/demo"
)

func TestKeyboardControls(t *testing.T) {
	s := demo.NewSynth(m32.Rate44100)
	var out bytes.Buffer
	k := NewKeyboard(s, demo.DefaultPatch(), &out)

	for _, b := range []byte("xx]],,") {
		if err := k.Key(b); err != nil {
			t.Fatalf("key %q: %v", b, err)
		}
	}
	if k.octave != 2 {
		t.Errorf("octave = %d, want 2", k.octave)
	}
	if bpm := s.Tempo(); bpm != 130 {
		t.Errorf("tempo = %.1f, want 130", bpm)
	}
	if k.cutoff > 0.2501 || k.cutoff < 0.2499 {
		t.Errorf("cutoff = %.3f, want 0.25", k.cutoff)
	}
	for i := 0; i < 10; i++ {
		k.Key('x')
	}
	if k.octave != MAX_OCTAVE {
		t.Errorf("octave ran to %d", k.octave)
	}
	if !strings.Contains(out.String(), "tempo 130\r\n") {
		t.Errorf("status output %q", out.String())
	}
	t.Log(strings.ReplaceAll(out.String(), "\r\n", "; "))
}

func TestKeyboardQuitKeys(t *testing.T) {
	k := NewKeyboard(demo.NewSynth(m32.Rate44100), demo.DefaultPatch(), nil)
	for _, b := range []byte{'q', 0x03, 0x1b} {
		if err := k.Key(b); !errors.Is(err, errQuit) {
			t.Errorf("key %#x: %v, want errQuit", b, err)
		}
	}
	if err := k.Key('?'); err != nil {
		t.Errorf("unmapped key: %v", err)
	}
}

func TestKeyboardArpToggle(t *testing.T) {
	s := demo.NewSynth(m32.Rate44100)
	k := NewKeyboard(s, demo.DefaultPatch(), nil)
	k.Key('1') // arp off
	k.Key('a')
	buf := make([]int16, 2*4410)
	m32.Render(s, buf)
	var peak int16
	for _, v := range buf {
		peak = max(peak, v)
	}
	if peak < 1000 {
		t.Errorf("tapped note peak %d", peak)
	}
}
