// comb.go - Feedforward/feedback comb filter

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

// Comb mixes the input, the delayed input and the delayed output with three
// independent Q10 coefficients.
type Comb struct {
	delayCore
	xBuf []int16
	yBuf []int16
	a    Q10 // Input
	b    Q10 // Feedforward
	c    Q10 // Feedback
}

// NewComb returns a feedback comb (a = 1, b = 0, c = curve(0.5)) able to
// delay up to maxMs.
func NewComb(rate Rate, maxMs float64) *Comb {
	c := &Comb{delayCore: delayCore{rate: rate}, a: Q10_ONE}
	c.SetCFB(0.5)
	if err := c.SetMaxTime(maxMs); err == nil {
		c.delay = len(c.xBuf) - 1
	}
	return c
}

func (c *Comb) SetMaxTime(ms float64) error {
	n := c.rate.Samples(ms) + 1
	if n <= len(c.xBuf) {
		return nil
	}
	xBuf, err := allocBuffer(c.rate, n, "comb")
	if err != nil {
		c.xBuf, c.yBuf, c.write, c.delay = nil, nil, 0, 0
		return err
	}
	c.xBuf = xBuf
	c.yBuf = make([]int16, n)
	c.write = 0
	return nil
}

func (c *Comb) SetTime(ms float64) error {
	n := c.rate.Samples(ms)
	if n >= len(c.xBuf) {
		if err := c.SetMaxTime(ms); err != nil {
			return err
		}
	}
	c.delay = max(n, 1)
	return nil
}

// SetAIn, SetBFF and SetCFB take levels in [0, 1] mapped through
// pow(level, 0.4). Out of range values are ignored.
func (c *Comb) SetAIn(level float64) {
	if level >= 0 && level <= 1 {
		c.a = Q10Curve(level)
	}
}

func (c *Comb) SetBFF(level float64) {
	if level >= 0 && level <= 1 {
		c.b = Q10Curve(level)
	}
}

func (c *Comb) SetCFB(level float64) {
	if level >= 0 && level <= 1 {
		c.c = Q10Curve(level)
	}
}

func (c *Comb) Next(x int16) int16 {
	n := len(c.xBuf)
	if n == 0 {
		return 0
	}
	read := c.readIndex(n)
	acc := int32(c.a)*int32(x) + int32(c.b)*int32(c.xBuf[read]) + int32(c.c)*int32(c.yBuf[read])
	y := Clip16(acc >> 10)
	c.xBuf[c.write] = x
	c.yBuf[c.write] = y
	c.step(n)
	return y
}
