// synth.go - Demo composition: arpeggiated mono synth with a drum sample

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

// Package demo is the composition the m32play and m32render hosts run: a
// detuned oscillator pair through a ladder or SVF filter, amplitude and
// filter envelopes, drive, stereo chorus, echo and reverb, clocked by an
// arpeggiator with a Euclidean drum pattern.
package demo

import (
	"math"
	"sync"

	"github.com/intuitionamiga/m32"
	"github.com/intuitionamiga/m32/midi"
)

const (
	KICK_MS        = 180
	GATE_FRACTION  = 0.5 // Arp note length relative to the step
	MASTER_THRESH  = 0.6
	MASTER_RATIO   = 3
	ECHO_MAX_MS    = 1000
	FILTER_ENV_MAX = 0.45 // Cutoff swing at full envelope

	CUTOFF_UPDATE_FRAMES = 32
)

// FilterType selects the voice filter.
type FilterType int

const (
	FILTER_LADDER FilterType = iota
	FILTER_SVF
	FILTER_SVF_HQ
)

// Synth is the demo Graph. Control methods lock the same mutex the render
// path takes, so keyboard and MIDI goroutines can drive it while a device
// backend pulls frames.
type Synth struct {
	mu    sync.Mutex
	rate  m32.Rate
	clock *m32.FrameClock

	tables map[string]m32.Wavetable
	osc    *m32.Osc
	sub    *m32.Osc
	subMix m32.Q10

	filterType FilterType
	ladder     *m32.Bob
	svf        *m32.SVF
	svf2       *m32.SVF2
	cutoff     float64
	envAmount  float64

	amp  *m32.Env
	fenv *m32.Env

	drive   *m32.Overdrive
	chorus  *m32.ChorusStereo
	echo    *m32.Del
	verb    *m32.Verb
	hall    *m32.StereoReverb
	useHall bool
	masterL *m32.Compressor
	masterR *m32.Compressor

	arp     *m32.Arp
	arpOn   bool
	timer   *m32.StepTimer
	pattern *m32.Seq
	kick    *m32.Samp
	kickBuf []int16

	syncOut *midi.PulseOut
	syncOn  bool

	gateOff uint64 // Frame clock ms when the current note releases
	gated   bool
	held    []int
}

// NewSynth builds the demo voice for rate with the default patch applied.
func NewSynth(rate m32.Rate) *Synth {
	clock := m32.NewFrameClock(rate)
	s := &Synth{
		rate:    rate,
		clock:   clock,
		tables:  StandardTables(),
		ladder:  m32.NewBob(rate),
		svf:     m32.NewSVF(rate),
		svf2:    m32.NewSVF2(rate),
		amp:     m32.NewEnv(clock),
		fenv:    m32.NewEnv(clock),
		drive:   m32.NewOverdrive(rate),
		chorus:  m32.NewChorusStereo(rate),
		echo:    m32.NewDel(rate, ECHO_MAX_MS),
		verb:    m32.NewVerb(rate, true),
		hall:    m32.NewStereoReverb(rate),
		masterL: m32.NewCompressor(rate),
		masterR: m32.NewCompressor(rate),
		arp:     m32.NewArp(),
		timer:   m32.NewStepTimer(clock, 120, 4, 1),
		kick:    m32.NewSamp(rate),

		syncOut: midi.NewPulseOut(clock),
	}
	s.osc = m32.NewOsc(rate, s.tables["saw"])
	s.sub = m32.NewOsc(rate, s.tables["square"])
	for _, c := range []*m32.Compressor{s.masterL, s.masterR} {
		c.SetThreshold(MASTER_THRESH)
		c.SetRatio(MASTER_RATIO)
	}
	s.echo.SetFeedback(true)

	s.kickBuf = KickSample(rate)
	s.kick.SetBuffer(s.kickBuf, len(s.kickBuf), 1, int(rate))

	if err := s.hall.Prepare(); err != nil {
		s.hall = nil
	}
	s.apply(DefaultPatch())
	return s
}

// StandardTables returns the waveforms a patch can name.
func StandardTables() map[string]m32.Wavetable {
	tables := map[string]m32.Wavetable{}
	fill := map[string]func(m32.Wavetable){
		"saw":      func(t m32.Wavetable) { t.FillSaw() },
		"square":   func(t m32.Wavetable) { t.FillPulse(0.5) },
		"pulse":    func(t m32.Wavetable) { t.FillPulse(0.25) },
		"triangle": func(t m32.Wavetable) { t.FillTriangle() },
		"sine":     func(t m32.Wavetable) { t.FillCos() },
	}
	for name, f := range fill {
		t := m32.NewWavetable()
		f(t)
		tables[name] = t
	}
	return tables
}

// KickSample renders a short pitch-swept sine thump.
func KickSample(rate m32.Rate) []int16 {
	n := rate.Samples(KICK_MS)
	buf := make([]int16, n)
	phase := 0.0
	for i := range buf {
		t := float64(i) / rate.Hz()
		freq := 45 + 110*math.Exp(-t*30)
		phase += 2 * math.Pi * freq / rate.Hz()
		amp := math.Exp(-t * 18)
		buf[i] = int16(math.Sin(phase) * amp * 28000)
	}
	return buf
}

// Clock exposes the frame clock the envelopes and step timer run on.
func (s *Synth) Clock() m32.Clock { return s.clock }

// RenderFrame produces one stereo frame. Implements m32.Graph.
func (s *Synth) RenderFrame() (left, right int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.Tick()
	now := s.clock.Millis()

	if s.arpOn && s.arp.Size() > 0 && s.timer.Due() {
		s.trigger(s.arp.Next(), now+uint64(s.timer.Delta()*GATE_FRACTION))
		if s.pattern.Next() != 0 {
			s.kick.Start()
		}
		if s.syncOn {
			s.syncOut.Trigger()
		}
	}
	if s.gated && now >= s.gateOff {
		s.release()
	}

	v := int32(s.osc.Next())
	v += s.subMix.Mul(int32(s.sub.Next()))
	x := m32.Clip16(v >> 1)

	fe := float64(s.fenv.Next()) / m32.MAX_ENV_LEVEL
	if s.clock.Frames()%CUTOFF_UPDATE_FRAMES == 0 {
		s.setCutoff(s.cutoff + fe*s.envAmount*FILTER_ENV_MAX)
	}
	x = s.filter(x)
	s.amp.Next()
	x = s.amp.Apply(x)
	x = s.drive.Next(x)

	l, r := s.chorus.Next(x)
	e := s.echo.Next(m32.Mix(l, r, m32.Q10_ONE/2))
	l = m32.Clip16(int32(l) + int32(e)>>1)
	r = m32.Clip16(int32(r) + int32(e)>>1)

	if s.useHall && s.hall != nil {
		hl, hr := s.hall.Next(m32.Mix(l, r, m32.Q10_ONE/2))
		l, r = m32.Mix(l, hl, m32.Q10_ONE/2), m32.Mix(r, hr, m32.Q10_ONE/2)
	} else {
		vl, vr := s.verb.NextStereo(m32.Mix(l, r, m32.Q10_ONE/2))
		l, r = m32.Mix(l, vl, m32.Q10_ONE/2), m32.Mix(r, vr, m32.Q10_ONE/2)
	}

	k := int32(s.kick.Next())
	l = m32.Clip16(int32(l) + k)
	r = m32.Clip16(int32(r) + k)

	left, right = s.masterL.Next(l), s.masterR.Next(r)
	if s.syncOn {
		right = s.syncOut.Level()
	}
	return left, right
}

func (s *Synth) filter(x int16) int16 {
	switch s.filterType {
	case FILTER_SVF:
		return s.svf.LPF(x)
	case FILTER_SVF_HQ:
		return s.svf2.LPF(x)
	}
	return s.ladder.Next(x)
}

func (s *Synth) setCutoff(c float64) {
	c = min(max(c, 0), 1)
	switch s.filterType {
	case FILTER_SVF:
		s.svf.SetCutoff(c)
	case FILTER_SVF_HQ:
		s.svf2.SetCutoff(c)
	default:
		s.ladder.SetCutoff(c)
	}
}

func (s *Synth) trigger(note int, gateOff uint64) {
	s.osc.SetPitch(float64(note))
	s.sub.SetPitch(float64(note - 12))
	s.amp.Start()
	s.fenv.Start()
	s.gateOff = gateOff
	s.gated = true
}

func (s *Synth) release() {
	s.amp.StartRelease()
	s.fenv.StartRelease()
	s.gated = false
}

// NoteOn plays note. With the arpeggiator on, the note joins the held set
// instead.
func (s *Synth) NoteOn(note int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.arpOn {
		s.arp.AddNote(note)
		if s.arp.Size() == 1 {
			s.arp.Reset()
			s.timer.Reset()
			s.pattern.Reset()
		}
		return
	}
	s.held = append(s.held, note)
	s.osc.SetPitch(float64(note))
	s.sub.SetPitch(float64(note - 12))
	s.amp.Start()
	s.fenv.Start()
	s.gated = false
}

// NoteOff releases note. Mono mode falls back to the previous held note.
func (s *Synth) NoteOff(note int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.arpOn {
		s.arp.RemoveNote(note)
		return
	}
	for i, n := range s.held {
		if n == note {
			s.held = append(s.held[:i], s.held[i+1:]...)
			break
		}
	}
	if len(s.held) == 0 {
		s.release()
		return
	}
	last := s.held[len(s.held)-1]
	s.osc.SetPitch(float64(last))
	s.sub.SetPitch(float64(last - 12))
}

// Tap plays note for ms, for inputs that have no key-up event.
func (s *Synth) Tap(note int, ms float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.arpOn {
		if s.arp.Contains(note) {
			s.arp.RemoveNote(note)
		} else {
			s.arp.AddNote(note)
		}
		return
	}
	s.trigger(note, s.clock.Millis()+uint64(max(ms, 1)))
}

// AllNotesOff silences the voice and empties the arpeggiator.
func (s *Synth) AllNotesOff() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arp.Clear()
	s.held = s.held[:0]
	s.release()
}

// SetTempo changes the arpeggiator tempo, for MIDI clock or sync input.
func (s *Synth) SetTempo(bpm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.SetBPM(bpm)
	s.echo.SetTime(s.timer.Delta() * 3)
}

func (s *Synth) Tempo() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.BPM()
}

// SetCutoff sets the base filter cutoff, 0..1.
func (s *Synth) SetCutoff(c float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoff = min(max(c, 0), 1)
}

// SetResonance sets the filter resonance, 0..1.
func (s *Synth) SetResonance(r float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ladder.SetRes(r)
	s.svf.SetRes(r)
	s.svf2.SetRes(r)
}

// SetArp switches between arpeggiated and played notes.
func (s *Synth) SetArp(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arpOn = on
	s.arp.Clear()
	s.held = s.held[:0]
}

// SetSyncOut replaces the right channel with a sync pulse on every step.
func (s *Synth) SetSyncOut(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncOn = on
}

// SetKick replaces the drum sample. The clip is borrowed.
func (s *Synth) SetKick(buf []int16, frames, channels, rate int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kick.SetBuffer(buf, frames, channels, rate)
}

// Apply loads p into the synth.
func (s *Synth) Apply(p *Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(p)
}

func (s *Synth) apply(p *Patch) {
	if t, ok := s.tables[p.Waveform]; ok {
		s.osc.SetTable(t)
	}
	s.osc.SetSpread(p.Detune)
	s.osc.SetGlide(p.Glide)
	s.subMix = m32.Q10FromFloat(min(max(p.Sub, 0), 1))

	switch p.Filter {
	case "svf":
		s.filterType = FILTER_SVF
	case "svf2":
		s.filterType = FILTER_SVF_HQ
	default:
		s.filterType = FILTER_LADDER
	}
	s.cutoff = min(max(p.Cutoff, 0), 1)
	s.envAmount = min(max(p.EnvAmount, 0), 1)
	s.ladder.SetRes(p.Resonance)
	s.svf.SetRes(p.Resonance)
	s.svf2.SetRes(p.Resonance)

	a := p.Amp
	s.amp.Set(a.Attack, a.Hold, a.Decay, a.Sustain, a.Release)
	f := p.FilterEnv
	s.fenv.Set(f.Attack, f.Hold, f.Decay, f.Sustain, f.Release)

	s.drive.SetAmount(p.Drive)
	s.chorus.SetMix(1, p.Chorus)
	s.chorus.SetRate(p.ChorusRate)
	s.echo.SetLevel(p.Echo)

	s.useHall = p.Reverb == "hall"
	s.verb.SetRoomSize(p.Room)
	s.verb.SetWet(p.Wet)
	if s.hall != nil {
		s.hall.SetSize(p.Room)
		s.hall.SetMix(p.Wet)
	}

	s.arpOn = p.Arp
	s.arp.SetValues(p.Notes)
	s.arp.SetRange(p.Octaves)
	s.arp.SetDirection(arpDirections[p.Direction])
	s.timer.SetDivision(p.Division, 1)
	s.timer.SetBPM(p.BPM)
	s.echo.SetTime(s.timer.Delta() * 3)

	s.pattern = m32.NewSeq(max(p.Steps, 1))
	s.pattern.GenerateEuclidean(p.Hits, p.Rotate)
}
