// midi_test.go - Parser and tempo tracker tests

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/M32
License: GPLv3 or later
*/

package midi

import (
	"math"
	"testing"

	"github.com/intuitionamiga/m32"
)

func feedAll(p *Parser, bytes ...byte) []Message {
	var out []Message
	for _, b := range bytes {
		if m, ok := p.Feed(b); ok {
			out = append(out, m)
		}
	}
	return out
}

func TestParserMessages(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		want  []Message
	}{
		{"note on", []byte{0x91, 60, 100}, []Message{{NOTE_ON, 1, 60, 100}}},
		{"note on zero velocity", []byte{0x90, 60, 0}, []Message{{NOTE_OFF, 0, 60, 0}}},
		{"running status", []byte{0x90, 60, 100, 64, 90}, []Message{{NOTE_ON, 0, 60, 100}, {NOTE_ON, 0, 64, 90}}},
		{"program change", []byte{0xC2, 5, 6}, []Message{{PROGRAM_CHANGE, 2, 5, 0}, {PROGRAM_CHANGE, 2, 6, 0}}},
		{"channel pressure", []byte{0xD0, 77}, []Message{{CHANNEL_PRESSURE, 0, 77, 0}}},
		{"clock inside a message", []byte{0xB0, 7, CLOCK, 127}, []Message{{CLOCK, 0, 0, 0}, {CONTROL_CHANGE, 0, 7, 127}}},
		{"sysex skipped", []byte{SYSEX_START, 1, 2, 3, SYSEX_END, 0x80, 60, 0}, []Message{{NOTE_OFF, 0, 60, 0}}},
		{"stray data", []byte{12, 34}, nil},
		{"song position", []byte{SONG_POSITION, 1, 2, 3}, []Message{{SONG_POSITION, 0, 1, 2}}},
		{"transport", []byte{START, CONTINUE, STOP}, []Message{{Status: START}, {Status: CONTINUE}, {Status: STOP}}},
	}
	for _, tc := range tests {
		var p Parser
		got := feedAll(&p, tc.bytes...)
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: message %d = %v, want %v", tc.name, i, got[i], tc.want[i])
			}
		}
	}
}

func TestMessageFields(t *testing.T) {
	var p Parser
	msgs := feedAll(&p, 0xE0, 0x00, 0x40, 0xE0, 0x7F, 0x7F)
	if msgs[0].Bend() != 0 || msgs[1].Bend() != 8191 {
		t.Errorf("bend = %d, %d", msgs[0].Bend(), msgs[1].Bend())
	}
	if !(Message{Status: CLOCK}).IsRealtime() || (Message{Status: NOTE_ON}).IsRealtime() {
		t.Error("IsRealtime misclassified")
	}
	t.Log(Message{NOTE_ON, 0, 60, 100})
}

func TestClockTrackerTempo(t *testing.T) {
	var c ClockTracker
	if c.BPM() != 0 {
		t.Fatal("tempo before any tick")
	}
	const delta = 20833 // 120 BPM at 24 PPQN
	now := uint64(1000)
	for i := 1; i <= 25; i++ {
		c.Tick(now)
		now += delta
		if i >= 16 {
			if bpm := c.BPM(); math.Abs(bpm-120) > 1 {
				t.Errorf("tick %d: %.2f BPM, want 120", i, bpm)
			}
		}
	}

	// Tempo change settles once the ring has refilled.
	for i := 0; i <= CLOCK_AVERAGE; i++ {
		c.Tick(now)
		now += 2 * delta
	}
	if bpm := c.BPM(); math.Abs(bpm-60) > 0.5 {
		t.Errorf("after slowing: %.2f BPM, want 60", bpm)
	}
}

func TestClockTrackerNewestWeight(t *testing.T) {
	const delta = 20833
	var c ClockTracker
	now := uint64(0)
	for i := 0; i <= CLOCK_AVERAGE; i++ {
		c.Tick(now)
		now += delta
	}
	c.Tick(now + delta) // one late tick: the newest delta doubles

	older := float64((CLOCK_AVERAGE - 1) * delta)
	avg := (older + CLOCK_AVERAGE*2*delta) / (2*CLOCK_AVERAGE - 1)
	want := 60e6 / (avg * CLOCK_PPQN)
	plain := 60e6 / ((older + 2*delta) / CLOCK_AVERAGE * CLOCK_PPQN)
	got := c.BPM()
	t.Logf("weighted %.3f BPM, plain mean would give %.3f", got, plain)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("BPM = %.6f, want %.6f", got, want)
	}
	if got >= plain {
		t.Errorf("newest delta not weighted: %.3f >= %.3f", got, plain)
	}
}

func TestDataLength(t *testing.T) {
	tests := []struct {
		status byte
		want   int
	}{
		{NOTE_ON | 3, 2},
		{NOTE_OFF, 2},
		{CONTROL_CHANGE | 15, 2},
		{PROGRAM_CHANGE | 1, 1},
		{CHANNEL_PRESSURE, 1},
		{SONG_POSITION, 2},
		{SONG_SELECT, 1},
		{TIME_CODE, 1},
		{CLOCK, 0},
		{START, 0},
	}
	for _, tt := range tests {
		if got := DataLength(tt.status); got != tt.want {
			t.Errorf("DataLength(%02X) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestClockTrackerTransport(t *testing.T) {
	var c ClockTracker
	c.Handle(Message{Status: START}, 0)
	if !c.Running() {
		t.Fatal("START did not run")
	}
	steps := 0
	for i := 0; i < 48; i++ {
		c.Handle(Message{Status: CLOCK}, uint64(i)*20833)
		if c.StepDue(4) {
			steps++
		}
	}
	if steps != 8 {
		t.Errorf("two beats gave %d sixteenth steps, want 8", steps)
	}
	c.Handle(Message{Status: STOP}, 0)
	if c.Running() {
		t.Error("STOP did not stop")
	}
	c.Handle(Message{Status: START}, 0)
	if c.Ticks() != 0 {
		t.Errorf("START left %d ticks", c.Ticks())
	}
}

func TestPulseTracker(t *testing.T) {
	p := NewPulseTracker(0)
	if p.PPQN() != PULSE_DEFAULT_PPQN {
		t.Fatalf("ppqn = %d", p.PPQN())
	}
	// 120 BPM at 2 PPQN is a pulse every 250 ms, 10 ms high.
	edges := 0
	for ms := uint64(0); ms < 2000; ms++ {
		v := int16(0)
		if ms%250 < 10 {
			v = 30000
		}
		if p.Sample(v, ms) {
			edges++
		}
	}
	if edges != 8 {
		t.Errorf("%d edges, want 8", edges)
	}
	if bpm := p.BPM(); math.Abs(bpm-120) > 1e-9 {
		t.Errorf("BPM = %f, want 120", bpm)
	}

	// Chatter between the thresholds is not a new edge.
	q := NewPulseTracker(2)
	levels := []int16{0, 20000, 12000, 20000, 12000, 0, 20000}
	edges = 0
	for i, v := range levels {
		if q.Sample(v, uint64(i)) {
			edges++
		}
	}
	if edges != 2 {
		t.Errorf("hysteresis: %d edges, want 2", edges)
	}
}

func TestPulseOut(t *testing.T) {
	clock := &m32.ManualClock{}
	p := NewPulseOut(clock)
	p.SetWidth(10)
	if p.Level() != 0 {
		t.Fatal("output high before a trigger")
	}
	p.Trigger()
	clock.Set(5)
	if p.Level() != m32.MAX_16 {
		t.Error("output low during the pulse")
	}
	clock.Set(10)
	if p.Level() != 0 {
		t.Error("output still high after the width")
	}
}
