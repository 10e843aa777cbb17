// ema.go - One-pole EMA filters and the two-sample average

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

const EMA_MIN_ALPHA = 10

// EMA is a one-pole exponential moving average. Next is the low-pass,
// NextHPF the matching high-pass; each keeps its own history.
type EMA struct {
	alpha Q10
	y     int32 // Low-pass history
	hpX   int32 // High-pass input history
	hpY   int32 // High-pass output history
	rate  Rate
}

// NewEMA returns a filter with cutoff control 0.5.
func NewEMA(rate Rate) *EMA {
	e := &EMA{rate: rate}
	e.SetCutoff(0.5)
	return e
}

// SetCutoff maps a 0..1 control to alpha = (1 - (1-c)^0.2) * 1024, never
// below EMA_MIN_ALPHA.
func (e *EMA) SetCutoff(c float64) {
	c = clampFloat(c, 0, 1)
	a := Q10FromFloat(1 - math.Pow(1-c, 0.2))
	e.alpha = max(a, EMA_MIN_ALPHA)
}

// SetFreq sets alpha for a one-pole corner at hz.
func (e *EMA) SetFreq(hz float64) {
	if hz <= 0 {
		return
	}
	a := Q10FromFloat(1 - math.Exp(-TWO_PI*hz/e.rate.Hz()))
	e.alpha = min(max(a, 1), Q10_ONE)
}

func (e *EMA) Alpha() Q10 { return e.alpha }

// Next is the low-pass: y = (a*x + (1024-a)*y) >> 10.
func (e *EMA) Next(x int16) int16 {
	e.y = (int32(e.alpha)*int32(x) + int32(Q10_ONE-e.alpha)*e.y) >> 10
	return Clip16(e.y)
}

// NextHPF is the high-pass:
// y = ((2048-a)*(x-x[-1])) >> 11 + ((1024-a)*y[-1]) >> 10.
func (e *EMA) NextHPF(x int16) int16 {
	xi := int32(x)
	y := ((2048-int32(e.alpha))*(xi-e.hpX))>>11 + (int32(Q10_ONE-e.alpha)*e.hpY)>>10
	e.hpX = xi
	e.hpY = int32(Clip16(y))
	return int16(e.hpY)
}

// Ave is a gentle smoothing low-pass used where a full filter is overkill.
type Ave struct {
	prev     float64
	cutLevel float64
}

// NewAve returns a smoother with cutoff control 1 (pass-through).
func NewAve() *Ave {
	a := &Ave{}
	a.SetCutoff(1)
	return a
}

// SetCutoff maps 0..1 to cutLevel = (1-c)^6 * 70. Lower is darker.
func (a *Ave) SetCutoff(c float64) {
	c = clampFloat(c, 0, 1)
	a.cutLevel = math.Pow(1-c, 6) * 70
}

func (a *Ave) Next(x int16) int16 {
	a.prev = (float64(x) + a.prev*a.cutLevel) / (1 + a.cutLevel)
	return Clip16(int32(a.prev))
}
