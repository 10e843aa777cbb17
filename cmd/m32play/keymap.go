package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/intuitionamiga/m32/internal/demo"
)

const (
	TAP_MS      = 220 // Note length for keys, which have no release event
	BASE_NOTE   = 60
	TEMPO_STEP  = 5
	CUTOFF_STEP = 0.05
	MIN_OCTAVE  = -3
	MAX_OCTAVE  = 3
)

var errQuit = errors.New("quit")

// Two piano rows on a QWERTY keyboard, lower octave on the home row.
var pianoKeys = map[byte]int{
	'a': 0, 'w': 1, 's': 2, 'e': 3, 'd': 4, 'f': 5, 't': 6,
	'g': 7, 'y': 8, 'h': 9, 'u': 10, 'j': 11, 'k': 12, 'o': 13, 'l': 14,
}

// Keyboard maps raw terminal bytes to synth controls.
type Keyboard struct {
	synth  *demo.Synth
	out    io.Writer
	octave int
	arp    bool
	sync   bool
	cutoff float64
}

func NewKeyboard(s *demo.Synth, p *demo.Patch, out io.Writer) *Keyboard {
	return &Keyboard{synth: s, out: out, arp: p.Arp, cutoff: p.Cutoff}
}

// Key handles one byte. It returns errQuit for q, Esc and Ctrl-C.
func (k *Keyboard) Key(b byte) error {
	if n, ok := pianoKeys[b]; ok {
		k.synth.Tap(BASE_NOTE+12*k.octave+n, TAP_MS)
		return nil
	}
	switch b {
	case 'q', 0x03, 0x1b:
		return errQuit
	case ' ':
		k.synth.AllNotesOff()
		k.status("all notes off")
	case 'z':
		k.octave = max(k.octave-1, MIN_OCTAVE)
		k.status("octave %+d", k.octave)
	case 'x':
		k.octave = min(k.octave+1, MAX_OCTAVE)
		k.status("octave %+d", k.octave)
	case '1':
		k.arp = !k.arp
		k.synth.SetArp(k.arp)
		k.status("arp %v", k.arp)
	case '2':
		k.sync = !k.sync
		k.synth.SetSyncOut(k.sync)
		k.status("sync out %v", k.sync)
	case '[', ']':
		bpm := k.synth.Tempo() - TEMPO_STEP
		if b == ']' {
			bpm += 2 * TEMPO_STEP
		}
		if bpm >= TEMPO_STEP {
			k.synth.SetTempo(bpm)
		}
		k.status("tempo %.0f", k.synth.Tempo())
	case ',', '.':
		if b == ',' {
			k.cutoff -= CUTOFF_STEP
		} else {
			k.cutoff += CUTOFF_STEP
		}
		k.cutoff = min(max(k.cutoff, 0), 1)
		k.synth.SetCutoff(k.cutoff)
		k.status("cutoff %.2f", k.cutoff)
	}
	return nil
}

// status prints a line; raw mode needs the explicit carriage return.
func (k *Keyboard) status(format string, args ...any) {
	if k.out != nil {
		fmt.Fprintf(k.out, format+"\r\n", args...)
	}
}
