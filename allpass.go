// allpass.go - Schroeder and lattice allpass filters

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

// delayCore is the ring bookkeeping shared by the single- and dual-buffer
// delay blocks.
type delayCore struct {
	rate  Rate
	write int
	delay int
}

func (c *delayCore) readIndex(size int) int {
	read := c.write - c.delay
	if read < 0 {
		read += size
	}
	return read
}

func (c *delayCore) step(size int) {
	c.write++
	if c.write >= size {
		c.write = 0
	}
}

// APF is a Schroeder allpass: one buffer holding x + g*d.
type APF struct {
	delayCore
	buf []int16
	g   Q10
}

// NewAPF allocates an allpass able to delay up to maxMs, with the delay
// set to maxMs and g = 0.5.
func NewAPF(rate Rate, maxMs float64) *APF {
	a := &APF{delayCore: delayCore{rate: rate}, g: Q10_ONE / 2}
	if err := a.SetMaxTime(maxMs); err == nil {
		a.delay = len(a.buf) - 1
	}
	return a
}

func (a *APF) SetMaxTime(ms float64) error {
	n := a.rate.Samples(ms) + 1
	if n <= len(a.buf) {
		return nil
	}
	buf, err := allocBuffer(a.rate, n, "apf")
	if err != nil {
		a.buf, a.write, a.delay = nil, 0, 0
		return err
	}
	a.buf, a.write = buf, 0
	return nil
}

// SetTime sets the delay in ms, growing the buffer when needed.
func (a *APF) SetTime(ms float64) error {
	n := a.rate.Samples(ms)
	if n >= len(a.buf) {
		if err := a.SetMaxTime(ms); err != nil {
			return err
		}
	}
	a.delay = max(n, 1)
	return nil
}

// SetGain sets g in [0, 1). Values outside are ignored.
func (a *APF) SetGain(g float64) {
	if g < 0 || g >= 1 {
		return
	}
	a.g = Q10FromFloat(g)
}

func (a *APF) Next(x int16) int16 {
	n := len(a.buf)
	if n == 0 {
		return 0
	}
	d := int32(a.buf[a.readIndex(n)])
	addA := Clip16(int32(x) + a.g.Mul(d))
	addB := d - a.g.Mul(int32(addA))
	a.buf[a.write] = addA
	a.step(n)
	return Clip16(addB)
}

// All is a lattice allpass keeping separate input and output histories:
// y[n] = -g*x[n] + x[n-D] + g*y[n-D].
type All struct {
	delayCore
	xBuf []int16
	yBuf []int16
	g    Q10
}

// NewAll allocates both histories for maxMs with level 0.5.
func NewAll(rate Rate, maxMs float64) *All {
	a := &All{delayCore: delayCore{rate: rate}}
	a.SetLevel(0.5)
	if err := a.SetMaxTime(maxMs); err == nil {
		a.delay = len(a.xBuf) - 1
	}
	return a
}

// SetMaxTime allocates the input and output histories, each exactly once
// per growth.
func (a *All) SetMaxTime(ms float64) error {
	n := a.rate.Samples(ms) + 1
	if n <= len(a.xBuf) {
		return nil
	}
	xBuf, err := allocBuffer(a.rate, n, "all")
	if err != nil {
		a.xBuf, a.yBuf, a.write, a.delay = nil, nil, 0, 0
		return err
	}
	a.xBuf = xBuf
	a.yBuf = make([]int16, n)
	a.write = 0
	return nil
}

func (a *All) SetTime(ms float64) error {
	n := a.rate.Samples(ms)
	if n >= len(a.xBuf) {
		if err := a.SetMaxTime(ms); err != nil {
			return err
		}
	}
	a.delay = max(n, 1)
	return nil
}

// SetLevel sets the coefficient to pow(level, 0.4). Values outside [0, 1]
// are ignored.
func (a *All) SetLevel(level float64) {
	if level < 0 || level > 1 {
		return
	}
	a.g = Q10Curve(level)
}

func (a *All) Next(x int16) int16 {
	n := len(a.xBuf)
	if n == 0 {
		return 0
	}
	read := a.readIndex(n)
	xi := int32(x)
	y := Clip16(a.g.Mul(-xi) + int32(a.xBuf[read]) + a.g.Mul(int32(a.yBuf[read])))
	a.xBuf[a.write] = x
	a.yBuf[a.write] = y
	a.step(n)
	return y
}
