// fx_chorus.go - Mono and stereo chorus

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

const (
	CHORUS_MAX_MS     = 60
	CHORUS_STEREO_MUL = 0.74 // Right voice base time relative to the left
)

// chorusVoice is one LFO-swept tap on a delay line.
type chorusVoice struct {
	del    *Del
	phase  float32 // LFO phase in radians
	baseMs float64
}

func (v *chorusVoice) next(x int32, c *chorusParams) int32 {
	lfo := fastSin(v.phase)
	v.phase += c.lfoInc
	if v.phase >= TWO_PI {
		v.phase -= TWO_PI
	}
	ms := v.baseMs + c.widthMs*float64(lfo+1)*0.5
	tap := int32(v.del.ReadFrac(ms * c.rate.Hz() / 1000))
	v.del.Write(Clip16(x + c.feedback.Mul(tap)))
	return tap
}

type chorusParams struct {
	lfoInc   float32
	widthMs  float64
	feedback Q10
	mixIn    Q10
	mixDel   Q10
	mixNorm  Q10
	rate     Rate
}

func (c *chorusParams) setRate(hz float64) {
	if hz <= 0 {
		return
	}
	c.lfoInc = float32(TWO_PI * hz / c.rate.Hz())
}

func (c *chorusParams) setMix(dry, wet float64) {
	c.mixIn = Q10FromFloat(clampFloat(dry, 0, 1))
	c.mixDel = Q10FromFloat(clampFloat(wet, 0, 1))
	c.mixNorm = Q10_ONE
	if sum := c.mixIn + c.mixDel; sum > 0 {
		c.mixNorm = min(Q10_ONE, Q10(int32(Q10_ONE)*int32(Q10_ONE)/int32(sum)))
	}
}

func (c *chorusParams) out(x, tap int32) int16 {
	y := (x*int32(c.mixIn) + tap*int32(c.mixDel)) >> 10
	return Clip16(c.mixNorm.Mul(y))
}

// Chorus is a single modulated delay voice.
type Chorus struct {
	chorusParams
	voice chorusVoice
}

// NewChorus returns a chorus at 10 ms, 0.5 Hz, 3 ms width, equal mix.
func NewChorus(rate Rate) *Chorus {
	c := &Chorus{chorusParams: chorusParams{rate: rate}}
	c.voice = chorusVoice{del: NewDel(rate, CHORUS_MAX_MS), baseMs: 10}
	c.setRate(0.5)
	c.widthMs = 3
	c.setMix(1, 1)
	return c
}

// SetTime sets the centre delay in ms.
func (c *Chorus) SetTime(ms float64) {
	if ms <= 0 {
		return
	}
	c.voice.baseMs = ms
	c.voice.del.SetMaxTime(ms + c.widthMs + 1)
}

func (c *Chorus) SetRate(hz float64) { c.setRate(hz) }

// SetWidth sets the LFO sweep in ms.
func (c *Chorus) SetWidth(ms float64) {
	if ms < 0 {
		return
	}
	c.widthMs = ms
	c.voice.del.SetMaxTime(c.voice.baseMs + ms + 1)
}

// SetFeedback sets the regeneration level, 0..1.
func (c *Chorus) SetFeedback(level float64) {
	if level < 0 || level > 1 {
		return
	}
	c.feedback = Q10FromFloat(level)
}

// SetMix sets dry and delayed levels; the sum is normalised so full
// levels on both cannot clip.
func (c *Chorus) SetMix(dry, wet float64) { c.setMix(dry, wet) }

func (c *Chorus) Next(x int16) int16 {
	tap := c.voice.next(int32(x), &c.chorusParams)
	return c.out(int32(x), tap)
}

// ChorusStereo runs two voices at t and 0.74t with LFOs a quarter cycle
// apart.
type ChorusStereo struct {
	chorusParams
	left, right chorusVoice
}

func NewChorusStereo(rate Rate) *ChorusStereo {
	c := &ChorusStereo{chorusParams: chorusParams{rate: rate}}
	c.left = chorusVoice{del: NewDel(rate, CHORUS_MAX_MS), baseMs: 10}
	c.right = chorusVoice{del: NewDel(rate, CHORUS_MAX_MS), baseMs: 10 * CHORUS_STEREO_MUL, phase: TWO_PI / 4}
	c.setRate(0.5)
	c.widthMs = 3
	c.setMix(1, 1)
	return c
}

func (c *ChorusStereo) SetTime(ms float64) {
	if ms <= 0 {
		return
	}
	c.left.baseMs = ms
	c.right.baseMs = ms * CHORUS_STEREO_MUL
	c.left.del.SetMaxTime(ms + c.widthMs + 1)
	c.right.del.SetMaxTime(c.right.baseMs + c.widthMs + 1)
}

func (c *ChorusStereo) SetRate(hz float64) { c.setRate(hz) }

func (c *ChorusStereo) SetWidth(ms float64) {
	if ms < 0 {
		return
	}
	c.widthMs = ms
	c.left.del.SetMaxTime(c.left.baseMs + ms + 1)
	c.right.del.SetMaxTime(c.right.baseMs + ms + 1)
}

func (c *ChorusStereo) SetFeedback(level float64) {
	if level < 0 || level > 1 {
		return
	}
	c.feedback = Q10FromFloat(level)
}

func (c *ChorusStereo) SetMix(dry, wet float64) { c.setMix(dry, wet) }

func (c *ChorusStereo) Next(x int16) (left, right int16) {
	in := int32(x)
	tl := c.left.next(in, &c.chorusParams)
	tr := c.right.next(in, &c.chorusParams)
	return c.out(in, tl), c.out(in, tr)
}
