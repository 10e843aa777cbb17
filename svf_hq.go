// svf_hq.go - Floating point resonant state-variable filter

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

const (
	SVF2_MAX_F       = 0.96
	SVF2_MAX_RES     = 0.99
	SVF2_DEFAULT_RES = 0.3 // -3 dB point lands on the cutoff
	SVF2_DENORMAL    = 1e-15
	SVF2_DC_POLE     = 0.995
	FILTER_MAX_STATE = 1e6
)

// SVF2 is the high quality state-variable filter. Input is normalised to
// [-1, 1] and the two integrators run in float64.
type SVF2 struct {
	buf0, buf1 float64
	f          float64 // min(0.96, 2*sin(pi*fc/SR))
	q          float64
	fb         float64 // q + q*(1-f)

	dcX, dcY float64 // DC blocker on the allpass path

	mode FilterMode
	freq float64
	rate Rate
}

// NewSVF2 returns a low-pass at 1 kHz.
func NewSVF2(rate Rate) *SVF2 {
	s := &SVF2{rate: rate, q: SVF2_DEFAULT_RES}
	s.SetFreq(1000)
	return s
}

func (s *SVF2) SetFreq(hz float64) {
	if hz <= 0 {
		return
	}
	s.freq = hz
	s.f = min(SVF2_MAX_F, 2*math.Sin(math.Pi*hz/s.rate.Hz()))
	s.fb = s.q + s.q*(1-s.f)
}

// SetCutoff sets the cutoff from a 0..1 control (20 Hz..20 kHz).
func (s *SVF2) SetCutoff(c float64) { s.SetFreq(cutoffToHz(c)) }

func (s *SVF2) Freq() float64 { return s.freq }

// SetRes sets resonance 0..1, clamped below self-oscillation.
func (s *SVF2) SetRes(q float64) {
	s.q = clampFloat(q, 0, SVF2_MAX_RES)
	s.fb = s.q + s.q*(1-s.f)
}

func (s *SVF2) SetMode(m FilterMode) { s.mode = m }

func (s *SVF2) Next(x int16) int16 {
	in := s.calc(x)
	var y float64
	switch s.mode {
	case FILTER_HPF:
		y = in - s.buf0
	case FILTER_BPF:
		y = s.buf0 - s.buf1
	case FILTER_NOTCH:
		y = in - s.buf0 + s.buf1
	case FILTER_ALLPASS:
		ap := in - 2*s.buf0 + 2*s.buf1
		y = ap - s.dcX + SVF2_DC_POLE*s.dcY
		s.dcX, s.dcY = ap, flushDenormal(y)
	default:
		y = s.buf1
	}
	return floatToSample(y)
}

func (s *SVF2) LPF(x int16) int16 { s.calc(x); return floatToSample(s.buf1) }
func (s *SVF2) HPF(x int16) int16 {
	in := s.calc(x)
	return floatToSample(in - s.buf0)
}
func (s *SVF2) BPF(x int16) int16 { s.calc(x); return floatToSample(s.buf0 - s.buf1) }

func (s *SVF2) calc(x int16) float64 {
	in := float64(x) / MAX_16
	s.buf0 += s.f * (in - s.buf0 + s.fb*(s.buf0-s.buf1))
	s.buf1 += s.f * (s.buf0 - s.buf1)
	s.buf0 = flushDenormal(s.buf0)
	s.buf1 = flushDenormal(s.buf1)
	if badState(s.buf0) || badState(s.buf1) {
		s.buf0, s.buf1 = 0, 0
	}
	return in
}

func flushDenormal(v float64) float64 {
	if v > -SVF2_DENORMAL && v < SVF2_DENORMAL {
		return 0
	}
	return v
}

// badState catches NaN and runaway feedback.
func badState(v float64) bool {
	return math.IsNaN(v) || v > FILTER_MAX_STATE || v < -FILTER_MAX_STATE
}
