// clock.go - Millisecond and microsecond clocks supplied by the host

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
	"sync/atomic"
	"time"
)

// Clock is a monotonic millisecond counter. It must never go backwards.
type Clock interface {
	Millis() uint64
}

// MicroClock is a monotonic microsecond counter.
type MicroClock interface {
	Micros() uint64
}

// SystemClock counts wall time since it was created.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Millis() uint64 { return uint64(time.Since(c.start).Milliseconds()) }
func (c *SystemClock) Micros() uint64 { return uint64(time.Since(c.start).Microseconds()) }

// ManualClock is advanced explicitly. Tests drive envelopes and step
// timers with it; it is safe to advance from one goroutine while another
// reads.
type ManualClock struct {
	us atomic.Uint64
}

func (c *ManualClock) Millis() uint64 { return c.us.Load() / 1000 }
func (c *ManualClock) Micros() uint64 { return c.us.Load() }

// Set moves the clock to ms. Moving backwards is ignored.
func (c *ManualClock) Set(ms uint64) {
	for {
		cur := c.us.Load()
		if ms*1000 <= cur {
			return
		}
		if c.us.CompareAndSwap(cur, ms*1000) {
			return
		}
	}
}

func (c *ManualClock) Advance(ms uint64)       { c.us.Add(ms * 1000) }
func (c *ManualClock) AdvanceMicros(us uint64) { c.us.Add(us) }

// FrameClock derives time from rendered frames, so offline renders see
// envelope timing that matches the audio rather than the wall clock.
type FrameClock struct {
	rate   Rate
	frames atomic.Uint64
}

func NewFrameClock(rate Rate) *FrameClock {
	return &FrameClock{rate: rate}
}

// Tick advances the clock by one frame. Call once per RenderFrame.
func (c *FrameClock) Tick() { c.frames.Add(1) }

func (c *FrameClock) Frames() uint64 { return c.frames.Load() }
func (c *FrameClock) Millis() uint64 { return c.frames.Load() * 1000 / uint64(c.rate) }
func (c *FrameClock) Micros() uint64 { return c.frames.Load() * 1000000 / uint64(c.rate) }
