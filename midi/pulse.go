// pulse.go - Analogue sync pulse input and output

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

import "github.com/intuitionamiga/m32"

const (
	PULSE_DEFAULT_PPQN = 2
	PULSE_AVERAGE      = 4 // Inter-pulse intervals averaged
	PULSE_HIGH         = 16384
	PULSE_LOW          = 8192
	PULSE_WIDTH_MS     = 15
)

// PulseTracker detects rising edges on a sampled sync input, with
// hysteresis between the high and low thresholds, and derives tempo from
// the last PULSE_AVERAGE intervals.
type PulseTracker struct {
	ppqn      int
	high, low int16
	level     bool

	intervals [PULSE_AVERAGE]uint64
	idx       int
	count     int
	last      uint64
	started   bool
	pulses    uint64
}

func NewPulseTracker(ppqn int) *PulseTracker {
	if ppqn <= 0 {
		ppqn = PULSE_DEFAULT_PPQN
	}
	return &PulseTracker{ppqn: ppqn, high: PULSE_HIGH, low: PULSE_LOW}
}

// SetThresholds sets the rising and falling levels. low must sit below
// high; other pairs are ignored.
func (p *PulseTracker) SetThresholds(high, low int16) {
	if low >= high {
		return
	}
	p.high, p.low = high, low
}

// Sample feeds one input level at ms and reports a rising edge.
func (p *PulseTracker) Sample(v int16, ms uint64) bool {
	if p.level {
		if v < p.low {
			p.level = false
		}
		return false
	}
	if v <= p.high {
		return false
	}
	p.level = true
	p.Pulse(ms)
	return true
}

// Pulse records an edge at ms directly, for inputs that are already
// digital.
func (p *PulseTracker) Pulse(ms uint64) {
	p.pulses++
	if !p.started {
		p.last = ms
		p.started = true
		return
	}
	p.intervals[p.idx] = ms - p.last
	p.last = ms
	p.idx = (p.idx + 1) % PULSE_AVERAGE
	if p.count < PULSE_AVERAGE {
		p.count++
	}
}

// BPM returns the tempo, or 0 until an interval has been measured.
func (p *PulseTracker) BPM() float64 {
	if p.count == 0 {
		return 0
	}
	var sum uint64
	for _, d := range p.intervals[:p.count] {
		sum += d
	}
	if sum == 0 {
		return 0
	}
	avg := float64(sum) / float64(p.count)
	return 60000 / avg / float64(p.ppqn)
}

func (p *PulseTracker) PPQN() int      { return p.ppqn }
func (p *PulseTracker) Pulses() uint64 { return p.pulses }

// PulseOut drives a sync output: Trigger starts a pulse and Level returns
// the output sample for the current time.
type PulseOut struct {
	clock m32.Clock
	width uint64
	until uint64
	high  bool
}

func NewPulseOut(clock m32.Clock) *PulseOut {
	return &PulseOut{clock: clock, width: PULSE_WIDTH_MS}
}

// SetWidth sets the pulse length in ms, at least 1.
func (p *PulseOut) SetWidth(ms uint64) { p.width = max(ms, 1) }

func (p *PulseOut) Trigger() {
	p.until = p.clock.Millis() + p.width
	p.high = true
}

// Level returns MAX_16 while a pulse is high and 0 otherwise.
func (p *PulseOut) Level() int16 {
	if p.high && p.clock.Millis() >= p.until {
		p.high = false
	}
	if p.high {
		return m32.MAX_16
	}
	return 0
}
