// bob.go - Four pole ladder filter with soft-knee saturation

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
	BOB_OVERSAMPLE = 2
	BOB_MAX_FREQ   = 0.425 // Of the output rate
	BOB_MAX_K      = 4.0   // Resonance feedback at res = 1
	BOB_PBG        = 0.5   // Passband gain compensation in the feedback path
	BOB_STATE_CLIP = 4.0

	bobA = 1.0 / 1.3
	bobB = 0.3 / 1.3
)

// Bob is a 4-pole ladder low-pass run at twice the output rate.
type Bob struct {
	z0 [4]float32 // Previous stage inputs
	z1 [4]float32 // Stage outputs

	alpha   float32
	qAdjust float32
	k       float32
	ampComp float32
	prevIn  float32

	freq float64
	res  float64
	rate Rate
}

// NewBob returns a ladder at 1 kHz with no resonance.
func NewBob(rate Rate) *Bob {
	b := &Bob{rate: rate}
	b.SetRes(0)
	b.SetFreq(1000)
	return b
}

// SetFreq sets the cutoff in Hz, limited to BOB_MAX_FREQ of the rate.
func (b *Bob) SetFreq(hz float64) {
	if hz <= 0 {
		return
	}
	hz = min(hz, b.rate.Hz()*BOB_MAX_FREQ)
	b.freq = hz
	wc := hz * TWO_PI / (BOB_OVERSAMPLE * b.rate.Hz())
	wc2 := wc * wc
	b.alpha = float32(0.9892*wc - 0.4324*wc2 + 0.1381*wc*wc2 - 0.0202*wc2*wc2)
	b.qAdjust = float32(1.006 + 0.0536*wc - 0.095*wc2 - 0.05*wc2*wc2)
}

// SetCutoff sets the cutoff from a 0..1 control (20 Hz..20 kHz).
func (b *Bob) SetCutoff(c float64) { b.SetFreq(cutoffToHz(c)) }

func (b *Bob) Freq() float64 { return b.freq }

// SetRes sets resonance 0..1; 1 is at the edge of self-oscillation.
func (b *Bob) SetRes(res float64) {
	b.res = clampFloat(res, 0, 1)
	b.k = float32(b.res * BOB_MAX_K)
	// Undo the passband loss from the feedback path at DC.
	b.ampComp = (1 + b.k) / (1 + BOB_PBG*b.k)
}

func (b *Bob) Next(x int16) int16 {
	in := float32(x) / MAX_16
	mid := (b.prevIn + in) * 0.5
	b.prevIn = in

	total := b.pass(in) + b.pass(mid)
	if b.checkState() {
		return 0
	}
	return floatToSample(float64(total * b.ampComp * 0.5))
}

func (b *Bob) pass(in float32) float32 {
	u := in - (b.z1[3]-BOB_PBG*in)*b.k*b.qAdjust
	u = softTanh(u)
	s := b.stage(u, 0)
	s = b.stage(s, 1)
	s = b.stage(s, 2)
	return b.stage(s, 3)
}

func (b *Bob) stage(s float32, i int) float32 {
	ft := s*bobA + b.z0[i]*bobB - b.z1[i]
	ft = ft*b.alpha + b.z1[i]
	b.z1[i] = ft
	b.z0[i] = s
	return ft
}

// checkState resets the ladder after NaN or runaway values and otherwise
// keeps every stage within ±BOB_STATE_CLIP. It reports whether it reset.
func (b *Bob) checkState() bool {
	for i := 0; i < 4; i++ {
		for _, v := range [2]float32{b.z0[i], b.z1[i]} {
			if badState(float64(v)) || math.IsInf(float64(v), 0) {
				b.Reset()
				return true
			}
		}
	}
	for i := 0; i < 4; i++ {
		b.z0[i] = clampFloat32(b.z0[i], -BOB_STATE_CLIP, BOB_STATE_CLIP)
		b.z1[i] = clampFloat32(b.z1[i], -BOB_STATE_CLIP, BOB_STATE_CLIP)
	}
	return false
}

// Reset clears the ladder state.
func (b *Bob) Reset() {
	b.z0 = [4]float32{}
	b.z1 = [4]float32{}
	b.prevIn = 0
}

func clampFloat32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
