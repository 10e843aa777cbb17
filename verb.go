// verb.go - Freeverb style comb and allpass reverb

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
	VERB_TUNING_RATE = 44100
	VERB_KNEE        = 24576
	VERB_MIN_ROOM    = 0.5
	VERB_MAX_ROOM    = 0.98
)

// Delay lengths in samples at VERB_TUNING_RATE
var (
	verbCombTuning    = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	verbAllpassTuning = [4]int{556, 441, 341, 225}
)

// Input attenuation for the standard and high quality banks
var (
	verbAttenStd = Q10FromFloat(0.2)
	verbAttenHQ  = Q10FromFloat(0.1)
)

type verbLine struct {
	buf   []int16
	mask  int
	write int
	delay int
}

func newVerbLine(delay int) verbLine {
	size := 1
	for size <= delay {
		size <<= 1
	}
	return verbLine{buf: make([]int16, size), mask: size - 1, delay: delay}
}

func (l *verbLine) read() int32 { return int32(l.buf[(l.write-l.delay)&l.mask]) }

func (l *verbLine) push(v int16) {
	l.buf[l.write] = v
	l.write = (l.write + 1) & l.mask
}

// Verb is a Freeverb network: parallel damped combs into serial allpasses.
// The standard bank is 4 combs and 2 allpasses, high quality 8 and 4.
type Verb struct {
	combs  []verbLine
	stores []int32 // Comb damping state
	aps    []verbLine

	atten    Q10
	room     Q10
	dampCoef Q10
	wet      Q10
	width    Q10
	rate     Rate
}

// NewVerb allocates a reverb for rate. Room 0.5, damping 0.5, wet 0.3,
// width 1.
func NewVerb(rate Rate, highQuality bool) *Verb {
	nc, na, atten := 4, 2, verbAttenStd
	if highQuality {
		nc, na, atten = 8, 4, verbAttenHQ
	}
	v := &Verb{rate: rate, atten: atten, stores: make([]int32, nc)}
	scale := rate.Hz() / VERB_TUNING_RATE
	for i := 0; i < nc; i++ {
		v.combs = append(v.combs, newVerbLine(int(math.Round(float64(verbCombTuning[i])*scale))))
	}
	for i := 0; i < na; i++ {
		v.aps = append(v.aps, newVerbLine(int(math.Round(float64(verbAllpassTuning[i])*scale))))
	}
	v.SetRoomSize(0.5)
	v.SetDamp(0.5)
	v.SetWet(0.3)
	v.SetWidth(1)
	return v
}

// SetRoomSize maps 0..1 through pow(size, 0.2) into [0.5, 0.98].
func (v *Verb) SetRoomSize(size float64) {
	if size < 0 || size > 1 {
		return
	}
	v.room = Q10FromFloat(clampFloat(math.Pow(size, 0.2), VERB_MIN_ROOM, VERB_MAX_ROOM))
}

// SetDamp sets comb damping, 0 (bright) to 1 (dark).
func (v *Verb) SetDamp(d float64) {
	if d < 0 || d > 1 {
		return
	}
	v.dampCoef = Q10FromFloat(1 - 0.4*d)
}

func (v *Verb) SetWet(w float64) {
	if w < 0 || w > 1 {
		return
	}
	v.wet = Q10FromFloat(w)
}

// SetWidth sets the stereo decorrelation used by NextStereo.
func (v *Verb) SetWidth(w float64) {
	if w < 0 || w > 1 {
		return
	}
	v.width = Q10FromFloat(w)
}

func (v *Verb) wetSignal(x int16) int32 {
	in := v.atten.Mul(int32(x))
	var sum int32
	for i := range v.combs {
		c := &v.combs[i]
		out := c.read()
		v.stores[i] += ((out-v.stores[i])*int32(v.dampCoef) + 512) >> 10
		c.push(softLimit(in+(v.stores[i]*int32(v.room)+512)>>10, VERB_KNEE))
		sum += out
	}
	for i := range v.aps {
		a := &v.aps[i]
		delayed := a.read()
		a.push(Clip16(sum + delayed>>1))
		sum = delayed - sum
	}
	return int32(Clip16(sum))
}

func (v *Verb) mix(x int16, wet int32) int16 {
	return Clip16((int32(x)*int32(Q10_ONE-v.wet) + wet*int32(v.wet)) >> 10)
}

func (v *Verb) Next(x int16) int16 {
	return v.mix(x, v.wetSignal(x))
}

// NextStereo spreads the wet signal using the difference of the first and
// third comb states.
func (v *Verb) NextStereo(x int16) (left, right int16) {
	wet := v.wetSignal(x)
	spread := v.width.Mul((v.stores[0] - v.stores[2]) >> 3)
	return v.mix(x, wet+spread), v.mix(x, wet-spread)
}
