// seq.go - Step sequencer, pattern generators and step timing

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

// Seq is a fixed capacity step sequence of integers: notes, levels or
// 0/1 hits.
type Seq struct {
	values  []int
	size    int
	index   int
	random  bool
	stepDiv float64
	bpm     float64
	rng     *Rand
}

// NewSeq returns a zeroed sequence of capacity steps, all active.
func NewSeq(capacity int) *Seq {
	capacity = max(capacity, 1)
	return &Seq{
		values:  make([]int, capacity),
		size:    capacity,
		stepDiv: 1,
		bpm:     120,
		rng:     DefaultRand,
	}
}

func (s *Seq) SetRand(r *Rand) {
	if r != nil {
		s.rng = r
	}
}

// Set stores v at step i. Out of range steps are ignored.
func (s *Seq) Set(i, v int) {
	if i < 0 || i >= len(s.values) {
		return
	}
	s.values[i] = v
}

// SetValues copies vals from step 0 and sets the size to match.
func (s *Seq) SetValues(vals []int) {
	n := copy(s.values, vals)
	if n > 0 {
		s.SetSize(n)
	}
}

func (s *Seq) Get(i int) int {
	if i < 0 || i >= s.size {
		return 0
	}
	return s.values[i]
}

// Values returns the active steps.
func (s *Seq) Values() []int { return s.values[:s.size] }

// SetSize sets the number of active steps, 1..capacity.
func (s *Seq) SetSize(n int) {
	s.size = clampInt(n, 1, len(s.values))
	if s.index >= s.size {
		s.index = 0
	}
}

func (s *Seq) Size() int         { return s.size }
func (s *Seq) Index() int        { return s.index }
func (s *Seq) SetRandom(on bool) { s.random = on }
func (s *Seq) Reset()            { s.index = 0 }

func (s *Seq) SetStepDiv(d float64) {
	if d > 0 {
		s.stepDiv = d
	}
}

func (s *Seq) SetBPM(bpm float64) {
	if bpm > 0 {
		s.bpm = bpm
	}
}

// StepDelta is the time between steps in ms at the current tempo.
func (s *Seq) StepDelta() float64 { return CalcStepDelta(s.bpm, 1, s.stepDiv) }

// Next returns the current step and moves on, in order or to a random step.
func (s *Seq) Next() int {
	v := s.values[s.index]
	if s.random {
		s.index = int(s.rng.Intn(int32(s.size)))
	} else {
		s.index++
		if s.index >= s.size {
			s.index = 0
		}
	}
	return v
}

// GenerateEuclidean fills the active steps with hits (1) and rests (0),
// spreading hits as evenly as the size allows. rotate moves the pattern
// later by that many steps; the first hit of an unrotated pattern is on
// step 0.
func (s *Seq) GenerateEuclidean(hits, rotate int) {
	n := s.size
	hits = clampInt(hits, 0, n)
	c := 1
	if hits < 2 {
		c = 0
	}
	for i := 0; i < n; i++ {
		k := ((i-rotate)*hits + c) % n
		if k < 0 {
			k += n
		}
		if k < hits {
			s.values[i] = 1
		} else {
			s.values[i] = 0
		}
	}
}

// GenerateRandomWalk fills the active steps with a walk from start, each
// step moving by up to ±maxDev and staying inside [lo, hi].
func (s *Seq) GenerateRandomWalk(start, maxDev, lo, hi int) {
	if lo > hi {
		lo, hi = hi, lo
	}
	maxDev = max(maxDev, 0)
	v := clampInt(start, lo, hi)
	for i := 0; i < s.size; i++ {
		s.values[i] = v
		v = clampInt(v+int(s.rng.Range(int32(-maxDev), int32(maxDev))), lo, hi)
	}
}

// CalcStepDelta returns the step length in ms: 60000 / bpm / slice /
// stepDiv. Non-positive arguments give 0.
func CalcStepDelta(bpm, slice, stepDiv float64) float64 {
	if bpm <= 0 || slice <= 0 || stepDiv <= 0 {
		return 0
	}
	return 60000 / bpm / slice / stepDiv
}

// StepTimer reports when the next sequencer step is due on a Clock.
type StepTimer struct {
	clock   Clock
	bpm     float64
	slice   float64
	stepDiv float64
	delta   float64 // ms
	next    float64 // Due time in ms
}

func NewStepTimer(clock Clock, bpm, slice, stepDiv float64) *StepTimer {
	t := &StepTimer{clock: clock, bpm: 120, slice: 1, stepDiv: 1}
	t.SetBPM(bpm)
	t.SetDivision(slice, stepDiv)
	t.Reset()
	return t
}

func (t *StepTimer) SetBPM(bpm float64) {
	if bpm <= 0 {
		return
	}
	t.bpm = bpm
	t.delta = CalcStepDelta(t.bpm, t.slice, t.stepDiv)
}

func (t *StepTimer) SetDivision(slice, stepDiv float64) {
	if slice <= 0 || stepDiv <= 0 {
		return
	}
	t.slice, t.stepDiv = slice, stepDiv
	t.delta = CalcStepDelta(t.bpm, t.slice, t.stepDiv)
}

func (t *StepTimer) BPM() float64   { return t.bpm }
func (t *StepTimer) Delta() float64 { return t.delta }

// Reset makes the next Due return true immediately.
func (t *StepTimer) Reset() { t.next = float64(t.clock.Millis()) }

// Due reports whether a step boundary has passed and schedules the next
// one. After a long stall it resynchronises rather than firing a burst.
func (t *StepTimer) Due() bool {
	now := float64(t.clock.Millis())
	if now < t.next {
		return false
	}
	t.next += t.delta
	if now-t.next > t.delta {
		t.next = now + t.delta
	}
	return true
}
