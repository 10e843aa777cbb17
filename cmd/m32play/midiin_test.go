package main

import (
	"context"
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/intuitionamiga/m32"
	"github.com/intuitionamiga/m32/midi"
)

type recorder struct {
	events []string
	bpm    float64
}

func (r *recorder) NoteOn(n int)           { r.add("on %d", n) }
func (r *recorder) NoteOff(n int)          { r.add("off %d", n) }
func (r *recorder) AllNotesOff()           { r.add("all off") }
func (r *recorder) SetCutoff(c float64)    { r.add("cutoff %.2f", c) }
func (r *recorder) SetResonance(v float64) { r.add("res %.2f", v) }
func (r *recorder) SetTempo(bpm float64)   { r.bpm = bpm; r.add("tempo") }

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func TestMIDIInputMessages(t *testing.T) {
	tests := []struct {
		name    string
		channel int
		bytes   []byte
		want    []string
	}{
		{"omni", -1, []byte{0x90, 60, 100, 0x95, 62, 100}, []string{"on 60", "on 62"}},
		{"filtered", 2, []byte{0x90, 60, 100, 0x92, 64, 100}, []string{"on 64"}},
		{"running status", 0, []byte{0x90, 60, 100, 64, 100, 60, 0}, []string{"on 60", "on 64", "off 60"}},
		{"note off", 0, []byte{0x80, 60, 64}, []string{"off 60"}},
		{"controllers", 0, []byte{0xB0, CC_CUTOFF, 127, 0xB0, CC_RESONANCE, 0, 0xB0, CC_ALL_NOTES_OFF, 0, 0xB0, 1, 64},
			[]string{"cutoff 1.00", "res 0.00", "all off"}},
		{"realtime inside a message", 0, []byte{0x90, 60, midi.ACTIVE_SENSE, 100}, []string{"on 60"}},
	}
	for _, tc := range tests {
		r := &recorder{}
		in := NewMIDIInput(r, &m32.ManualClock{}, tc.channel)
		in.Feed(tc.bytes)
		if !slices.Equal(r.events, tc.want) {
			t.Errorf("%s: got %q, want %q", tc.name, r.events, tc.want)
		}
	}
}

func TestMIDIClockSetsTempo(t *testing.T) {
	r := &recorder{}
	clock := &m32.ManualClock{}
	in := NewMIDIInput(r, clock, -1)

	in.Feed([]byte{midi.START})
	for i := 0; i < 2*midi.CLOCK_PPQN; i++ {
		// 60e6 / (24 * 90 BPM) microseconds per tick
		clock.AdvanceMicros(27778)
		in.Feed([]byte{midi.CLOCK})
	}
	// Once per quarter note.
	if n := len(r.events); n != 2 {
		t.Errorf("%d tempo updates, want 2", n)
	}
	if math.Abs(r.bpm-90) > 0.1 {
		t.Errorf("tempo = %.2f, want 90", r.bpm)
	}
}

func TestMIDIInputFramedEvents(t *testing.T) {
	type event struct{ status, d1, d2 byte }
	tests := []struct {
		name   string
		events []event
		want   []string
	}{
		{"note on and off", []event{{0x90, 60, 100}, {0x80, 60, 0}}, []string{"on 60", "off 60"}},
		{"zero velocity", []event{{0x90, 62, 100}, {0x90, 62, 0}}, []string{"on 62", "off 62"}},
		{"program change then note", []event{{0xC0, 5, 60}, {0x90, 64, 90}}, []string{"on 64"}},
		{"pressure then note", []event{{0xD0, 40, 60}, {0x90, 65, 90}}, []string{"on 65"}},
		{"controller", []event{{0xB0, CC_CUTOFF, 0}}, []string{"cutoff 0.00"}},
		{"sysex and stray data dropped", []event{{midi.SYSEX_START, 0x7E, 0x7F}, {60, 100, 0}, {0x90, 67, 90}}, []string{"on 67"}},
	}
	for _, tc := range tests {
		r := &recorder{}
		in := NewMIDIInput(r, &m32.ManualClock{}, -1)
		for _, ev := range tc.events {
			in.FeedEvent(ev.status, ev.d1, ev.d2)
		}
		if !slices.Equal(r.events, tc.want) {
			t.Errorf("%s: got %q, want %q", tc.name, r.events, tc.want)
		}
	}
}

func TestMIDIFramedClock(t *testing.T) {
	r := &recorder{}
	clock := &m32.ManualClock{}
	in := NewMIDIInput(r, clock, -1)
	in.FeedEvent(midi.START, 0, 0)
	for i := 0; i < midi.CLOCK_PPQN; i++ {
		clock.AdvanceMicros(20833)
		in.FeedEvent(midi.CLOCK, 0, 0)
	}
	t.Logf("tempo %.2f", r.bpm)
	if math.Abs(r.bpm-120) > 0.1 {
		t.Errorf("tempo = %.2f, want 120", r.bpm)
	}
}

func TestMIDIOpenUnknownDriver(t *testing.T) {
	in := NewMIDIInput(&recorder{}, &m32.ManualClock{}, -1)
	// Not a registered driver, so it is opened as a path.
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := in.Open(ctx, "nodriver:/does/not/exist"); err == nil {
		t.Error("missing device opened")
	}
}
