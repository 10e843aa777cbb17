// fx_reverb.go - Four line Hadamard reverb and its variants

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

import (
	"math"
	"sync"
	"sync/atomic"
)

const (
	REVERB_LINES    = 4
	REVERB_MAX_SIZE = 6     // Line length multiplier at size = 1
	REVERB_KNEE     = 24576 // Soft limit inside the loop
	REVERB_HPF_HZ   = 40

	REVERB2_PRE1_MS = 49.6
	REVERB2_PRE1_G  = 0.83
	REVERB2_PRE2_MS = 34.65
	REVERB2_PRE2_G  = 0.79
)

// Base line lengths in ms at size factor 1. Mutually prime in samples at
// both supported rates.
var reverbBaseMs = [REVERB_LINES]float64{7.5, 8.993, 10.844, 12.118}

type reverbLine struct {
	buf    []int16
	write  int
	length int
	lp     int32 // Damping state
}

func (l *reverbLine) read() int32 {
	r := l.write - l.length
	if r < 0 {
		r += len(l.buf)
	}
	return int32(l.buf[r])
}

func (l *reverbLine) push(v int16) {
	l.buf[l.write] = v
	l.write++
	if l.write >= len(l.buf) {
		l.write = 0
	}
}

// Reverb is four recursive delay lines cross-fed through a Hadamard
// matrix. Buffers are allocated by Prepare, which is safe to call from
// several goroutines; Next before Prepare passes the input through.
type Reverb struct {
	mu       sync.Mutex
	prepared atomic.Bool // Set once the lines are live

	lines    [REVERB_LINES]reverbLine
	lineRate float64 // Rate the lines are clocked at

	size     float64
	feedback Q10
	damp     Q10
	dampCoef Q10
	mix      Q10

	hpf  *EMA
	pre1 *APF
	pre2 *APF
	rate Rate
}

// NewReverb returns an unprepared reverb: size 0.5, feedback 0.85,
// damping 0.5, mix 0.3.
func NewReverb(rate Rate) *Reverb {
	return newReverb(rate, rate.Hz())
}

func newReverb(rate Rate, lineRate float64) *Reverb {
	r := &Reverb{rate: rate, lineRate: lineRate, hpf: NewEMA(rate)}
	r.hpf.SetFreq(REVERB_HPF_HZ)
	r.size = 0.5
	r.SetFeedback(0.85)
	r.SetDamp(0.5)
	r.SetMix(0.3)
	return r
}

// Prepare allocates the delay lines (and the Next2 pre-delays) once.
func (r *Reverb) Prepare() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prepared.Load() {
		return nil
	}
	for i := range r.lines {
		n := int(math.Ceil(reverbBaseMs[i]*REVERB_MAX_SIZE*r.lineRate/1000)) + 1
		buf, err := allocBuffer(r.rate, n, "reverb")
		if err != nil {
			return err
		}
		r.lines[i] = reverbLine{buf: buf}
	}
	r.pre1 = NewAPF(r.rate, REVERB2_PRE1_MS)
	r.pre1.SetTime(REVERB2_PRE1_MS)
	r.pre1.SetGain(REVERB2_PRE1_G)
	r.pre2 = NewAPF(r.rate, REVERB2_PRE2_MS)
	r.pre2.SetTime(REVERB2_PRE2_MS)
	r.pre2.SetGain(REVERB2_PRE2_G)
	r.setLengths()
	r.prepared.Store(true)
	return nil
}

// SetSize scales the line lengths by 1..REVERB_MAX_SIZE.
func (r *Reverb) SetSize(s float64) {
	if s < 0 || s > 1 {
		return
	}
	r.size = s
	r.setLengths()
}

func (r *Reverb) setLengths() {
	factor := 1 + (REVERB_MAX_SIZE-1)*r.size
	for i := range r.lines {
		l := &r.lines[i]
		if len(l.buf) == 0 {
			continue
		}
		n := int(math.Round(reverbBaseMs[i] * factor * r.lineRate / 1000))
		l.length = clampInt(n, 1, len(l.buf)-1)
	}
}

// SetFeedback sets the gain on every tap, 0..0.99.
func (r *Reverb) SetFeedback(level float64) {
	if level < 0 || level > 1 {
		return
	}
	r.feedback = Q10FromFloat(min(level, 0.99))
}

// SetDamp sets the high frequency loss per pass, 0 (bright) to 1 (dark).
func (r *Reverb) SetDamp(d float64) {
	if d < 0 || d > 1 {
		return
	}
	r.damp = Q10FromFloat(d)
	r.dampCoef = 717 + ((Q10_ONE-r.damp)*307)>>10
}

// SetMix sets the wet share, 0..1.
func (r *Reverb) SetMix(m float64) {
	if m < 0 || m > 1 {
		return
	}
	r.mix = Q10FromFloat(m)
}

// process runs one pass of the loop and returns the damped taps.
func (r *Reverb) process(in int32) [REVERB_LINES]int32 {
	var d [REVERB_LINES]int32
	for i := range r.lines {
		l := &r.lines[i]
		tap := r.feedback.Mul(l.read())
		l.lp += ((tap - l.lp) * int32(r.dampCoef)) >> 10
		d[i] = l.lp
	}

	a, b := d[0]+d[1], d[0]-d[1]
	c, e := d[2]+d[3], d[2]-d[3]
	h := [REVERB_LINES]int32{(a + c) >> 1, (b + e) >> 1, (a - c) >> 1, (b - e) >> 1}
	for i := range r.lines {
		r.lines[i].push(softLimit(in+h[i], REVERB_KNEE))
	}
	return d
}

func (r *Reverb) wet(in int32) int16 {
	d := r.process(in)
	return Clip16((d[0] + d[1] + d[2] + d[3]) >> 1)
}

// Next returns the mixed output for one sample.
func (r *Reverb) Next(x int16) int16 {
	if !r.prepared.Load() {
		return x
	}
	in := int32(r.hpf.NextHPF(x))
	return Mix(x, r.wet(in), r.mix)
}

// Next2 adds two Schroeder allpass pre-delays ahead of the loop for a
// denser onset.
func (r *Reverb) Next2(x int16) int16 {
	if !r.prepared.Load() {
		return x
	}
	in := r.pre2.Next(r.pre1.Next(r.hpf.NextHPF(x)))
	return Mix(x, r.wet(int32(in)), r.mix)
}

// StereoReverb runs the loop at half the output rate, interpolates the odd
// samples and post-smooths each side. Lines 0 and 2 feed the left, 1 and 3
// the right.
type StereoReverb struct {
	r *Reverb

	odd         bool
	pendingIn   int32
	prevL, curL int32
	prevR, curR int32
	smoothL     int32
	smoothR     int32
}

func NewStereoReverb(rate Rate) *StereoReverb {
	return &StereoReverb{r: newReverb(rate, rate.Hz()/2)}
}

func (s *StereoReverb) Prepare() error            { return s.r.Prepare() }
func (s *StereoReverb) SetSize(size float64)      { s.r.SetSize(size) }
func (s *StereoReverb) SetFeedback(level float64) { s.r.SetFeedback(level) }
func (s *StereoReverb) SetDamp(d float64)         { s.r.SetDamp(d) }
func (s *StereoReverb) SetMix(m float64)          { s.r.SetMix(m) }

// Next returns the left and right outputs for a mono input.
func (s *StereoReverb) Next(x int16) (left, right int16) {
	r := s.r
	if !r.prepared.Load() {
		return x, x
	}
	in := int32(r.hpf.NextHPF(x))
	var wl, wr int32
	if s.odd {
		d := r.process((s.pendingIn + in) >> 1)
		s.prevL, s.prevR = s.curL, s.curR
		s.curL, s.curR = d[0]+d[2], d[1]+d[3]
		wl, wr = s.curL, s.curR
	} else {
		s.pendingIn = in
		wl, wr = (s.prevL+s.curL)>>1, (s.prevR+s.curR)>>1
	}
	s.odd = !s.odd

	s.smoothL += (wl - s.smoothL) >> 3
	s.smoothR += (wr - s.smoothR) >> 3
	return Mix(x, Clip16(s.smoothL), r.mix), Mix(x, Clip16(s.smoothR), r.mix)
}
