// wavetable.go - Runtime waveform generators

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

package m32

import "math"

// Wavetable is one period of a waveform, TABLE_SIZE entries long. Tables
// are shared read-only between oscillators; fill them before rendering.
type Wavetable []int16

// NewWavetable returns a silent table.
func NewWavetable() Wavetable { return make(Wavetable, TABLE_SIZE) }

func NewCosTable() Wavetable      { t := NewWavetable(); t.FillCos(); return t }
func NewTriangleTable() Wavetable { t := NewWavetable(); t.FillTriangle(); return t }
func NewSquareTable() Wavetable   { t := NewWavetable(); t.FillPulse(0.5); return t }
func NewSawTable() Wavetable      { t := NewWavetable(); t.FillSaw(); return t }
func NewCrackleTable() Wavetable  { t := NewWavetable(); t.FillCrackle(); return t }

func NewPulseTable(duty float64) Wavetable {
	t := NewWavetable()
	t.FillPulse(duty)
	return t
}

func NewNoiseTable(rng *Rand) Wavetable {
	t := NewWavetable()
	t.FillNoise(rng)
	return t
}

// Valid reports whether t has the length every oscillator expects.
func (t Wavetable) Valid() bool { return len(t) == TABLE_SIZE }

func (t Wavetable) FillSilence() {
	for i := range t {
		t[i] = 0
	}
}

func (t Wavetable) FillCos() {
	for i := range t {
		t[i] = int16(math.Round(math.Cos(TWO_PI*float64(i)/float64(len(t))) * MAX_16))
	}
}

// FillTriangle writes a rising ramp over the first half and a falling ramp
// over the second, starting at MIN_16.
func (t Wavetable) FillTriangle() {
	half := len(t) / 2
	for i := 0; i < half; i++ {
		t[i] = int16(MIN_16 + int32(i)*2*MAX_16/int32(half))
	}
	for i := half; i < len(t); i++ {
		t[i] = int16(MAX_16 - int32(i-half)*2*MAX_16/int32(len(t)-half))
	}
}

// FillPulse writes MAX_16 for the first duty fraction of the period and
// MIN_16 for the rest.
func (t Wavetable) FillPulse(duty float64) {
	duty = clampFloat(duty, 0, 1)
	edge := int(math.Round(duty * float64(len(t))))
	for i := range t {
		if i < edge {
			t[i] = MAX_16
		} else {
			t[i] = MIN_16
		}
	}
}

// FillSaw descends linearly from MAX_16 to MIN_16.
func (t Wavetable) FillSaw() {
	last := int32(len(t) - 1)
	for i := range t {
		t[i] = int16(MAX_16 - int32(i)*2*MAX_16/last)
	}
}

func (t Wavetable) FillNoise(rng *Rand) {
	if rng == nil {
		rng = DefaultRand
	}
	for i := range t {
		t[i] = rng.Sample()
	}
}

// FillCrackle leaves a single full-scale impulse at the start of the table.
func (t Wavetable) FillCrackle() {
	t.FillSilence()
	if len(t) > 0 {
		t[0] = MAX_16
	}
}
