// svf.go - Integer Chamberlin state-variable filter

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

// FilterMode selects the output of the state-variable filters.
type FilterMode int

const (
	FILTER_LPF FilterMode = iota
	FILTER_HPF
	FILTER_BPF
	FILTER_NOTCH
	FILTER_ALLPASS
)

const (
	SVF_MIN_RES   = 0.05 // Below this the input scale collapses to silence
	SVF_MAX_RES   = 0.98 // Above this the loop self-oscillates
	SVF_MAX_STATE = 1 << 19
)

// SVF is the efficient two-integrator filter. Coefficients are computed on
// parameter change; the per-sample path is integer only.
type SVF struct {
	low, band, high, notch int32
	f                      int32 // 2*sin(pi*fc/SR) in Q16
	q                      int32 // (1-res) * MAX_16, damping
	scale                  int32 // sqrt(res) * MAX_16, input gain
	resOffset              Q10   // 1.2 - 1.6*res

	apX, apY int32 // Allpass history

	mode FilterMode
	freq float64
	res  float64
	rate Rate
}

// NewSVF returns a low-pass at 1 kHz with resonance 0.5.
func NewSVF(rate Rate) *SVF {
	s := &SVF{rate: rate}
	s.SetRes(0.5)
	s.SetFreq(1000)
	return s
}

// SetFreq sets the cutoff in Hz, limited to a sixth of the rate where the
// Chamberlin structure stays stable.
func (s *SVF) SetFreq(hz float64) {
	if hz <= 0 {
		return
	}
	hz = min(hz, s.rate.Hz()/6)
	s.freq = hz
	s.f = int32(2 * math.Sin(math.Pi*hz/s.rate.Hz()) * 65536)
}

// SetCutoff sets the cutoff from a 0..1 control on an exponential
// 20 Hz..20 kHz scale.
func (s *SVF) SetCutoff(c float64) { s.SetFreq(cutoffToHz(c)) }

func (s *SVF) Freq() float64 { return s.freq }

// SetRes sets resonance 0..1. Inputs are clamped to
// [SVF_MIN_RES, SVF_MAX_RES].
func (s *SVF) SetRes(res float64) {
	res = clampFloat(res, SVF_MIN_RES, SVF_MAX_RES)
	s.res = res
	s.q = int32((1 - res) * MAX_16)
	s.scale = int32(math.Sqrt(res) * MAX_16)
	s.resOffset = Q10FromFloat(1.2 - 1.6*res)
}

func (s *SVF) SetMode(m FilterMode) { s.mode = m }

func (s *SVF) Next(x int16) int16 {
	switch s.mode {
	case FILTER_HPF:
		return s.HPF(x)
	case FILTER_BPF:
		return s.BPF(x)
	case FILTER_NOTCH:
		return s.Notch(x)
	case FILTER_ALLPASS:
		return s.Allpass(x)
	default:
		return s.LPF(x)
	}
}

func (s *SVF) LPF(x int16) int16   { s.calc(x); return Clip16(s.low) }
func (s *SVF) HPF(x int16) int16   { s.calc(x); return Clip16(s.high) }
func (s *SVF) BPF(x int16) int16   { s.calc(x); return Clip16(s.band) }
func (s *SVF) Notch(x int16) int16 { s.calc(x); return Clip16(s.notch) }

// Allpass is the simple first-order form y = x + x[-1] - y[-1].
func (s *SVF) Allpass(x int16) int16 {
	y := int32(Clip16(int32(x) + s.apX - s.apY))
	s.apX, s.apY = int32(x), y
	return int16(y)
}

func (s *SVF) calc(x int16) {
	in := s.resOffset.Mul(int32(x))
	s.low += int32((int64(s.f) * int64(s.band)) >> 16)
	s.high = int32((int64(s.scale)*int64(in))>>15) - s.low - int32((int64(s.q)*int64(s.band))>>16)
	s.band += int32((int64(s.f) * int64(s.high)) >> 16)
	s.notch = s.high + s.low

	s.low = clampState(s.low)
	s.band = clampState(s.band)
}

func clampState(v int32) int32 {
	if v > SVF_MAX_STATE {
		return SVF_MAX_STATE
	}
	if v < -SVF_MAX_STATE {
		return -SVF_MAX_STATE
	}
	return v
}

// cutoffToHz maps a 0..1 control to 20 Hz..20 kHz exponentially.
func cutoffToHz(c float64) float64 {
	c = clampFloat(c, 0, 1)
	return 20 * math.Pow(1000, c)
}
