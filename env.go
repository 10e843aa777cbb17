// env.go - ADHSR envelope driven by a millisecond clock

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

// EnvState is the envelope stage. COMPLETE is zero so a fresh Env is idle.
type EnvState int

const (
	ENV_COMPLETE EnvState = iota
	ENV_ATTACK
	ENV_HOLD
	ENV_DECAY
	ENV_SUSTAIN
	ENV_RELEASE
)

func (s EnvState) String() string {
	switch s {
	case ENV_ATTACK:
		return "attack"
	case ENV_HOLD:
		return "hold"
	case ENV_DECAY:
		return "decay"
	case ENV_SUSTAIN:
		return "sustain"
	case ENV_RELEASE:
		return "release"
	default:
		return "complete"
	}
}

// Env is an attack, hold, decay, sustain, release envelope. Stage times are
// in milliseconds read from the injected Clock, so the value depends on
// wall time rather than on how often Next is called.
type Env struct {
	clock Clock

	attack  uint64 // Stage durations in ms
	hold    uint64
	decay   uint64
	release uint64
	sustain float64 // Fraction of maxLevel

	maxLevel     int32
	sustainLevel int32

	state        EnvState
	stateStart   uint64 // Clock time the current stage began
	value        int32
	startLevel   int32 // Attack origin, non-zero on retrigger
	releaseLevel int32 // Level captured by StartRelease
}

// NewEnv returns an envelope with A=10, H=0, D=100, S=0.5, R=500 at full
// scale.
func NewEnv(clock Clock) *Env {
	e := &Env{
		clock:    clock,
		attack:   10,
		decay:    100,
		release:  500,
		maxLevel: MAX_ENV_LEVEL,
	}
	e.SetSustain(0.5)
	return e
}

func (e *Env) SetAttack(ms float64)  { e.attack = envMs(ms) }
func (e *Env) SetHold(ms float64)    { e.hold = envMs(ms) }
func (e *Env) SetDecay(ms float64)   { e.decay = envMs(ms) }
func (e *Env) SetRelease(ms float64) { e.release = envMs(ms) }

// SetSustain sets the sustain level as a fraction of the maximum level.
// Values outside [0, 1] are ignored.
func (e *Env) SetSustain(level float64) {
	if level < 0 || level > 1 {
		return
	}
	e.sustain = level
	e.sustainLevel = int32(level * float64(e.maxLevel))
}

// SetMaxLevel sets the peak level, clamped to [0, MAX_ENV_LEVEL].
func (e *Env) SetMaxLevel(level int32) {
	e.maxLevel = min(max(level, 0), MAX_ENV_LEVEL)
	e.sustainLevel = int32(e.sustain * float64(e.maxLevel))
}

// Set configures all five stages at once.
func (e *Env) Set(attack, hold, decay, sustain, release float64) {
	e.SetAttack(attack)
	e.SetHold(hold)
	e.SetDecay(decay)
	e.SetSustain(sustain)
	e.SetRelease(release)
}

// Start begins the attack. A retrigger while the envelope is still sounding
// ramps from the current level instead of dropping to zero.
func (e *Env) Start() {
	now := e.clock.Millis()
	if e.state != ENV_COMPLETE {
		e.update(now)
		e.startLevel = e.value
	} else {
		e.startLevel = 0
	}
	e.state = ENV_ATTACK
	e.stateStart = now
}

// StartRelease captures the current level and enters RELEASE. It only acts
// from ATTACK, HOLD, DECAY or SUSTAIN; repeated calls are no-ops.
func (e *Env) StartRelease() {
	if e.state == ENV_COMPLETE || e.state == ENV_RELEASE {
		return
	}
	now := e.clock.Millis()
	e.update(now)
	e.releaseLevel = e.value
	e.state = ENV_RELEASE
	e.stateStart = now
}

// Next advances to the clock's current time and returns the level.
func (e *Env) Next() int16 {
	e.update(e.clock.Millis())
	return int16(e.value)
}

// Value returns the level computed by the last Next.
func (e *Env) Value() int16      { return int16(e.value) }
func (e *Env) State() EnvState   { return e.state }
func (e *Env) IsBusy() bool      { return e.state != ENV_COMPLETE }
func (e *Env) SustainLevel() int { return int(e.sustainLevel) }

// Apply scales x by the current level.
func (e *Env) Apply(x int16) int16 {
	return Clip16((int32(x) * e.value) >> 15)
}

// update walks the stages up to now. Several stages can complete in one
// call when the clock has jumped.
func (e *Env) update(now uint64) {
	for {
		var dt uint64
		if now > e.stateStart {
			dt = now - e.stateStart
		}
		switch e.state {
		case ENV_ATTACK:
			if dt >= e.attack {
				e.value = e.maxLevel
				e.next(ENV_HOLD, e.attack)
				continue
			}
			e.value = e.startLevel + int32(int64(e.maxLevel-e.startLevel)*int64(dt)/int64(e.attack))
		case ENV_HOLD:
			if dt >= e.hold {
				e.next(ENV_DECAY, e.hold)
				continue
			}
			e.value = e.maxLevel
		case ENV_DECAY:
			if dt >= e.decay {
				e.value = e.sustainLevel
				e.next(ENV_SUSTAIN, e.decay)
				continue
			}
			e.value = e.maxLevel - int32(int64(e.maxLevel-e.sustainLevel)*int64(dt)/int64(e.decay))
		case ENV_SUSTAIN:
			e.value = e.sustainLevel
		case ENV_RELEASE:
			if dt >= e.release {
				e.value = 0
				e.state = ENV_COMPLETE
				return
			}
			t := 1 - float64(dt)/float64(e.release)
			e.value = int32(float64(e.releaseLevel) * math.Pow(t, 4))
		default:
			e.value = 0
		}
		return
	}
}

func (e *Env) next(s EnvState, elapsed uint64) {
	e.state = s
	e.stateStart += elapsed
}

func envMs(ms float64) uint64 {
	if ms <= 0 {
		return 0
	}
	return uint64(math.Round(ms))
}
