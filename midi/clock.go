// clock.go - MIDI clock tempo tracking

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

package midi

const (
	CLOCK_PPQN    = 24 // MIDI clock ticks per quarter note
	CLOCK_AVERAGE = 15 // Inter-tick deltas in the running average
)

// ClockTracker derives tempo from MIDI clock tick arrival times. It keeps
// a running sum over a ring of the last CLOCK_AVERAGE deltas; the newest
// delta is weighted CLOCK_AVERAGE times in the average so tempo changes
// show up within a tick or two.
type ClockTracker struct {
	deltas  [CLOCK_AVERAGE]uint64
	sum     uint64
	idx     int
	count   int
	newest  uint64
	last    uint64
	started bool

	running bool
	ticks   uint64 // Since the last START
}

// Tick records a clock tick seen at micros.
func (c *ClockTracker) Tick(micros uint64) {
	c.ticks++
	if !c.started {
		c.last = micros
		c.started = true
		return
	}
	d := micros - c.last
	c.last = micros

	c.sum -= c.deltas[c.idx]
	c.deltas[c.idx] = d
	c.sum += d
	c.newest = d
	c.idx = (c.idx + 1) % CLOCK_AVERAGE
	if c.count < CLOCK_AVERAGE {
		c.count++
	}
}

// BPM returns the tempo, or 0 before two ticks have been seen.
func (c *ClockTracker) BPM() float64 {
	if c.count == 0 || c.sum == 0 {
		return 0
	}
	const extra = CLOCK_AVERAGE - 1
	avg := float64(c.sum+extra*c.newest) / float64(c.count+extra)
	return 60e6 / (avg * CLOCK_PPQN)
}

// Handle feeds a parsed message. START rewinds the tick counter, STOP
// pauses, CONTINUE resumes; CLOCK is counted either way so tempo stays
// current while stopped.
func (c *ClockTracker) Handle(m Message, micros uint64) {
	switch m.Status {
	case CLOCK:
		c.Tick(micros)
	case START:
		c.running = true
		c.ticks = 0
	case CONTINUE:
		c.running = true
	case STOP:
		c.running = false
	}
}

func (c *ClockTracker) Running() bool { return c.running }

// Ticks returns the clock ticks since the last START.
func (c *ClockTracker) Ticks() uint64 { return c.ticks }

// StepDue reports whether the tick just counted falls on a step boundary
// of div steps per quarter note (4 gives sixteenths).
func (c *ClockTracker) StepDue(div int) bool {
	if div <= 0 || div > CLOCK_PPQN || c.ticks == 0 {
		return false
	}
	return (c.ticks-1)%uint64(CLOCK_PPQN/div) == 0
}

// Reset forgets all timing.
func (c *ClockTracker) Reset() {
	*c = ClockTracker{}
}
