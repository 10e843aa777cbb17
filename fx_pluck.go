// fx_pluck.go - Karplus-Strong string

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

const PLUCK_SIZE = 1500

// Pluck is a Karplus-Strong loop: the input plus the delayed output,
// averaged over two samples and written back.
type Pluck struct {
	buf   [PLUCK_SIZE]int16
	write int
	prev  int32
	rate  Rate
}

func NewPluck(rate Rate) *Pluck { return &Pluck{rate: rate} }

// LowestFreq is the lowest pitch the fixed buffer can hold.
func (p *Pluck) LowestFreq() float64 { return p.rate.Hz() / (PLUCK_SIZE - 1) }

// Next feeds x into a string tuned to f Hz with loop gain depth (0..1).
// Excite with a short noise burst and then feed zeros.
func (p *Pluck) Next(x int16, f float64, depth float64) int16 {
	if f <= 0 {
		return x
	}
	period := int(p.rate.Hz() / f)
	period = clampInt(period, 2, PLUCK_SIZE-1)
	read := p.write - period + 1
	if read < 0 {
		read += PLUCK_SIZE
	}

	g := Q10FromFloat(clampFloat(depth, 0, 1))
	v := int32(x) + g.Mul(int32(p.buf[read]))
	y := Clip16((v + p.prev) >> 1)
	p.prev = v

	p.buf[p.write] = y
	p.write++
	if p.write >= PLUCK_SIZE {
		p.write = 0
	}
	return y
}

// Reset silences the string.
func (p *Pluck) Reset() {
	p.buf = [PLUCK_SIZE]int16{}
	p.prev = 0
}
