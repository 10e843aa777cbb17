// delay.go - Circular delay line

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
	"errors"
	"fmt"
)

// ErrBufferSize is returned when a reconfigure path asks for a buffer that
// is empty or larger than the rate's MaxBufferSamples. The block is left in
// the zero-size state: Next returns 0 and writes are dropped.
var ErrBufferSize = errors.New("m32: buffer size out of range")

// allocBuffer sizes a delay buffer for n samples, or reports why it can't.
func allocBuffer(rate Rate, n int, who string) ([]int16, error) {
	if n <= 0 || n > rate.MaxBufferSamples() {
		logf("%s: cannot allocate %d samples", who, n)
		return nil, fmt.Errorf("%s: %d samples: %w", who, n, ErrBufferSize)
	}
	return make([]int16, n), nil
}

// Del is a delay line with a Q10 output level and optional feedback.
type Del struct {
	buf      []int16
	write    int
	delay    int // In samples, always < len(buf)
	level    Q10
	feedback bool
	rate     Rate
}

// NewDel allocates a delay line able to hold maxMs of audio. The delay
// time starts at maxMs.
func NewDel(rate Rate, maxMs float64) *Del {
	d := &Del{rate: rate, level: Q10_ONE}
	if err := d.SetMaxTime(maxMs); err == nil {
		d.delay = len(d.buf) - 1
	}
	return d
}

// SetMaxTime grows the buffer to hold ms of audio. It never shrinks, and
// must not be called from the render goroutine.
func (d *Del) SetMaxTime(ms float64) error {
	n := d.rate.Samples(ms) + 1
	if n <= len(d.buf) && len(d.buf) > 0 {
		return nil
	}
	buf, err := allocBuffer(d.rate, n, "del")
	if err != nil {
		d.buf, d.write, d.delay = nil, 0, 0
		return err
	}
	d.buf = buf
	d.write = 0
	return nil
}

// MaxTime returns the longest delay the current buffer supports in ms.
func (d *Del) MaxTime() float64 {
	if len(d.buf) == 0 {
		return 0
	}
	return d.rate.Ms(len(d.buf) - 1)
}

// SetTime sets the delay in ms, growing the buffer when needed.
func (d *Del) SetTime(ms float64) error {
	if ms < 0 {
		return nil
	}
	n := d.rate.Samples(ms)
	if n >= len(d.buf) {
		if err := d.SetMaxTime(ms); err != nil {
			return err
		}
	}
	d.delay = n
	return nil
}

// SetTimeSamples sets the delay directly in samples, clamped to the buffer.
func (d *Del) SetTimeSamples(n int) {
	if len(d.buf) == 0 {
		return
	}
	d.delay = clampInt(n, 0, len(d.buf)-1)
}

func (d *Del) TimeSamples() int { return d.delay }

// SetLevel sets the output level. Values outside [0, 1] are ignored.
func (d *Del) SetLevel(l float64) {
	if l < 0 || l > 1 {
		return
	}
	d.level = Q10FromFloat(l)
}

// SetFeedback folds half of the delayed output back into the input.
func (d *Del) SetFeedback(on bool) { d.feedback = on }

// Next writes x and returns the sample written delay samples ago, scaled
// by the level.
func (d *Del) Next(x int16) int16 {
	n := len(d.buf)
	if n == 0 {
		return 0
	}
	if d.delay <= 0 {
		d.buf[d.write] = x
		d.write++
		if d.write >= n {
			d.write = 0
		}
		return Clip16(d.level.Mul(int32(x)))
	}

	read := d.write - d.delay
	if read < 0 {
		read += n
	}
	out := d.level.Mul(int32(d.buf[read]))

	in := int32(x)
	if d.feedback {
		in = (in + out) >> 1
	}
	d.buf[d.write] = Clip16(in)
	d.write++
	if d.write >= n {
		d.write = 0
	}
	return Clip16(out)
}

// Read returns the sample written n samples ago without advancing.
func (d *Del) Read(n int) int16 {
	size := len(d.buf)
	if size == 0 {
		return 0
	}
	n = clampInt(n, 1, size-1)
	read := d.write - n
	if read < 0 {
		read += size
	}
	return d.buf[read]
}

// ReadFrac reads between samples with linear interpolation. Used by the
// modulated taps in the chorus.
func (d *Del) ReadFrac(samples float64) int16 {
	size := len(d.buf)
	if size < 3 {
		return 0
	}
	samples = clampFloat(samples, 1, float64(size-2))
	whole := int(samples)
	frac := int32((samples - float64(whole)) * 1024)
	a := int32(d.Read(whole))
	b := int32(d.Read(whole + 1))
	return Clip16(a + ((b-a)*frac)>>10)
}

// Write pushes x without reading. Pair with Read/ReadFrac.
func (d *Del) Write(x int16) {
	n := len(d.buf)
	if n == 0 {
		return
	}
	d.buf[d.write] = x
	d.write++
	if d.write >= n {
		d.write = 0
	}
}
