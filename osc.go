// osc.go - Wavetable oscillator with detune, modulation and noise sources

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
	OSC_JITTER       = 1e-6 // Per-step pitch jitter applied on wrap
	OSC_PARTICLE_DEC = 0.92 // Particle envelope decay per sample
	OSC_MAX_SPREAD   = 0.5  // Largest detune spread accepted
)

// Osc reads a shared wavetable with a fractional phase accumulator. Phases
// are indices into the table, 0 <= phase < TABLE_SIZE.
type Osc struct {
	// Hot fields, touched every sample
	table    Wavetable // Shared, never written by the oscillator
	phase    float64   // Main phase
	inc      float64   // Main increment including jitter
	baseInc  float64   // Increment for the set frequency
	det1     float64   // Upper detune phase
	det2     float64   // Lower detune phase
	det1Inc  float64   // Upper detune increment
	det2Inc  float64   // Lower detune increment
	prev     int32     // Previous output for one-pole smoothing
	particle float64   // Particle shaker envelope
	fbPhase  int32     // Feedback modulator tap phase, 3 fractional bits

	// Configuration
	rate      Rate
	freq      float64
	spread    float64
	rng       *Rand
	noise     bool
	crackle   bool
	crackProb int32 // Compared against rand(MAX_16)
	jitter    bool

	// Portamento
	glideSamples int
	glideLeft    int
	glideStep    float64
	glideTarget  float64
}

// NewOsc returns an oscillator reading table at 440 Hz.
func NewOsc(rate Rate, table Wavetable) *Osc {
	o := &Osc{
		rate:   rate,
		rng:    DefaultRand,
		jitter: true,
	}
	o.SetTable(table)
	o.SetFreq(440)
	return o
}

// SetTable swaps the wavetable. Tables of the wrong length are rejected.
func (o *Osc) SetTable(t Wavetable) {
	if !t.Valid() {
		logf("osc: ignoring wavetable of length %d", len(t))
		return
	}
	o.table = t
}

func (o *Osc) Table() Wavetable { return o.table }

// SetRand injects the generator used by noise, crackle and jitter.
func (o *Osc) SetRand(r *Rand) {
	if r != nil {
		o.rng = r
	}
}

// SetFreq sets the frequency in Hz. Values at or below zero are ignored.
func (o *Osc) SetFreq(f float64) {
	if f <= 0 {
		return
	}
	o.freq = f
	target := f * TABLE_SIZE / o.rate.Hz()
	if o.glideSamples > 0 && o.baseInc > 0 {
		o.glideTarget = target
		o.glideLeft = o.glideSamples
		o.glideStep = (target - o.baseInc) / float64(o.glideSamples)
	} else {
		o.glideLeft = 0
		o.baseInc = target
		o.inc = target
	}
	o.updateDetune()
}

func (o *Osc) Freq() float64 { return o.freq }

// SetPitch sets the frequency from a MIDI note number, clamped to [0, 127].
func (o *Osc) SetPitch(note float64) {
	o.SetFreq(Mtof(clampFloat(note, 0, 127)))
}

// SetGlide sets the portamento time applied by later frequency changes.
func (o *Osc) SetGlide(ms float64) {
	if ms < 0 {
		ms = 0
	}
	o.glideSamples = o.rate.Samples(ms)
}

// SetSpread enables detune: two extra phases run at (1+s) and (1-s) times
// the main increment. Zero disables it.
func (o *Osc) SetSpread(s float64) {
	o.spread = clampFloat(s, 0, OSC_MAX_SPREAD)
	o.updateDetune()
}

func (o *Osc) updateDetune() {
	o.det1Inc = o.baseInc * (1 + o.spread)
	o.det2Inc = o.baseInc * (1 - o.spread)
}

// SetNoise makes every wrap jump to a random table index.
func (o *Osc) SetNoise(on bool) { o.noise = on }

// SetCrackle makes a wrap jump to a random index with probability p.
func (o *Osc) SetCrackle(on bool, p float64) {
	o.crackle = on
	o.crackProb = int32(clampFloat(p, 0, 1) * MAX_16)
}

// SetJitter turns the wrap pitch jitter on or off.
func (o *Osc) SetJitter(on bool) {
	o.jitter = on
	if !on {
		o.inc = o.baseInc
	}
}

func (o *Osc) Phase() float64 { return o.phase }

// SetPhase moves the main phase, wrapping into the table.
func (o *Osc) SetPhase(p float64) {
	for p >= TABLE_SIZE {
		p -= TABLE_SIZE
	}
	for p < 0 {
		p += TABLE_SIZE
	}
	o.phase = p
}

func (o *Osc) readTable() int32 {
	return int32(o.table[int(o.phase)&TABLE_MASK])
}

// Next returns one sample and advances the phase.
func (o *Osc) Next() int16 {
	if o.table == nil {
		return 0
	}
	s := o.readTable()
	if o.spread > 0 {
		d1 := int32(o.table[int(o.det1)&TABLE_MASK])
		d2 := int32(o.table[int(o.det2)&TABLE_MASK])
		s = (s + (d1+d2)>>1) >> 1
	}
	s = (s + o.prev) >> 1
	o.prev = s
	o.advance()
	return Clip16(s)
}

// PhMod reads the table at a phase offset by mod scaled by index, then
// advances normally.
func (o *Osc) PhMod(mod int16, index int32) int16 {
	if o.table == nil {
		return 0
	}
	off := (int64(mod) * int64(index)) >> 4
	s := o.table[(int64(o.phase)+off)&TABLE_MASK]
	o.advance()
	return s
}

// RingMod multiplies the table by x.
func (o *Osc) RingMod(x int16) int16 {
	if o.table == nil {
		return 0
	}
	s := (o.readTable() * int32(x)) >> 16
	o.advance()
	return Clip16(s)
}

// Particle is a shaker voice: peaks above thresh (0..1 of full scale)
// retrigger a decaying envelope that gates the smoothed table output.
func (o *Osc) Particle(thresh float64) int16 {
	if o.table == nil {
		return 0
	}
	s := o.readTable()
	if float64(s) > MAX_16*thresh {
		o.particle = float64(s - 2*(MAX_16-s))
	} else {
		o.particle *= OSC_PARTICLE_DEC
	}
	out := (int32(float64((o.prev+2*s)/3)*o.particle) >> 16)
	o.prev = s
	o.advance()
	return Clip16(out)
}

// Feedback is a feedback-FM voice: a second phase taps the table and that
// tap, scaled by index, bends the main increment.
func (o *Osc) Feedback(index int32) int16 {
	if o.table == nil {
		return 0
	}
	out := o.table[int(o.phase)&TABLE_MASK]

	o.fbPhase += int32(o.baseInc * 8)
	if o.fbPhase >= TABLE_SIZE<<3 {
		o.fbPhase -= TABLE_SIZE << 3
	}
	tap := int32(o.table[(o.fbPhase>>3)&TABLE_MASK])

	o.phase += o.inc + float64((int64(index)*int64(tap))>>16)
	for o.phase >= TABLE_SIZE {
		o.phase -= TABLE_SIZE
	}
	for o.phase < 0 {
		o.phase += TABLE_SIZE
	}
	return out
}

func (o *Osc) advance() {
	if o.glideLeft > 0 {
		o.glideLeft--
		o.baseInc += o.glideStep
		if o.glideLeft == 0 {
			o.baseInc = o.glideTarget
		}
		o.inc = o.baseInc
		o.updateDetune()
	}

	o.phase += o.inc
	if o.phase >= TABLE_SIZE {
		switch {
		case o.noise:
			o.phase = float64(o.rng.Intn(TABLE_SIZE))
		case o.crackle && o.rng.Intn(MAX_16) < o.crackProb:
			o.phase = float64(o.rng.Intn(TABLE_SIZE))
		default:
			o.phase -= TABLE_SIZE
			if o.jitter {
				o.inc = o.baseInc * (1 + float64(o.rng.Intn(9)-4)*OSC_JITTER)
			}
		}
	}

	if o.spread > 0 {
		o.det1 += o.det1Inc
		if o.det1 >= TABLE_SIZE {
			o.det1 -= TABLE_SIZE
		}
		o.det2 += o.det2Inc
		if o.det2 >= TABLE_SIZE {
			o.det2 -= TABLE_SIZE
		}
	}
}
