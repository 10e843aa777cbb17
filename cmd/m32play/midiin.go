package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/intuitionamiga/m32"
	"github.com/intuitionamiga/m32/midi"
)

const (
	CC_RESONANCE     = 71
	CC_CUTOFF        = 74
	CC_ALL_NOTES_OFF = 123
	MIDI_READ_BUFFER = 256
)

// Instrument is the part of the demo synth MIDI input drives.
type Instrument interface {
	NoteOn(note int)
	NoteOff(note int)
	AllNotesOff()
	SetCutoff(c float64)
	SetResonance(r float64)
	SetTempo(bpm float64)
}

// MIDIInput plays an instrument from a raw MIDI byte stream, such as a
// /dev/snd/midiC*D* or /dev/midi* device node. Incoming clock sets the
// arpeggiator tempo once per quarter note.
type MIDIInput struct {
	synth   Instrument
	clock   m32.MicroClock
	channel int // 0-15, or -1 for all channels
	parser  midi.Parser
	tempo   midi.ClockTracker
	log     io.Writer
}

func NewMIDIInput(s Instrument, clock m32.MicroClock, channel int) *MIDIInput {
	return &MIDIInput{synth: s, clock: clock, channel: channel}
}

// midiDrivers open MIDI sources that deliver framed messages rather than a
// byte stream. A -midi value of "name" or "name:arg" picks one; anything
// else is read as a raw device path.
var midiDrivers = map[string]func(ctx context.Context, m *MIDIInput, arg string) error{}

// Open starts reading the source named by spec until ctx is done.
func (m *MIDIInput) Open(ctx context.Context, spec string) error {
	name, arg, _ := strings.Cut(spec, ":")
	if run, ok := midiDrivers[name]; ok {
		return run(ctx, m, arg)
	}
	return m.Run(ctx, spec)
}

// FeedEvent applies one framed message. Only the data bytes its status
// calls for reach the parser; sysex is dropped.
func (m *MIDIInput) FeedEvent(status, data1, data2 byte) {
	if status < 0x80 || status == midi.SYSEX_START || status == midi.SYSEX_END {
		return
	}
	msg := [3]byte{status, data1, data2}
	m.Feed(msg[:1+midi.DataLength(status)])
}

// Feed parses p and applies every complete message.
func (m *MIDIInput) Feed(p []byte) {
	for _, b := range p {
		if msg, ok := m.parser.Feed(b); ok {
			m.handle(msg)
		}
	}
}

func (m *MIDIInput) handle(msg midi.Message) {
	if m.log != nil && msg.Status != midi.CLOCK && msg.Status != midi.ACTIVE_SENSE {
		fmt.Fprintf(m.log, "midi: %v\r\n", msg)
	}
	if msg.IsRealtime() {
		m.tempo.Handle(msg, m.clock.Micros())
		if msg.Status == midi.CLOCK && m.tempo.Ticks()%midi.CLOCK_PPQN == 0 {
			if bpm := m.tempo.BPM(); bpm > 0 {
				m.synth.SetTempo(bpm)
			}
		}
		return
	}
	if m.channel >= 0 && int(msg.Channel) != m.channel {
		return
	}
	switch msg.Status {
	case midi.NOTE_ON:
		m.synth.NoteOn(msg.Note())
	case midi.NOTE_OFF:
		m.synth.NoteOff(msg.Note())
	case midi.CONTROL_CHANGE:
		v := float64(msg.Data2) / 127
		switch msg.Data1 {
		case CC_CUTOFF:
			m.synth.SetCutoff(v)
		case CC_RESONANCE:
			m.synth.SetResonance(v)
		case CC_ALL_NOTES_OFF:
			m.synth.AllNotesOff()
		}
	}
}

// Run reads a raw device node at path until ctx is done.
func (m *MIDIInput) Run(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("midi: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { f.Close() })
	defer stop()

	buf := make([]byte, MIDI_READ_BUFFER)
	for {
		n, err := f.Read(buf)
		m.Feed(buf[:n])
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("midi: %s: %w", path, err)
		}
	}
}
