// fx.go - Distortion, folding and dynamics

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

const (
	OVERDRIVE_PREFILTER_HZ = 10000
	SOFTCLIP_ATAN_SCALE    = 38000
	CUBIC_LIMIT            = 1.5
	PADE_LIMIT             = 3.0
	TUBE_NEG_DRIVE         = 0.7 // Negative half is driven less for even harmonics
)

// WaveFold scales x by a (at least 1) and folds anything beyond the rails
// back inward, a triangular fold that can wrap several times.
func WaveFold(x int16, a float64) int16 {
	a = max(a, 1)
	v := int64(float64(x) * a)
	const period = 4 * MAX_16
	y := (v + MAX_16) % period
	if y < 0 {
		y += period
	}
	if y > 2*MAX_16 {
		y = period - y
	}
	return int16(y - MAX_16)
}

// SoftClipAtan is 38000*atan(a*x), landing just under full scale at a = 1.
func SoftClipAtan(x int16, a float64) int16 {
	n := a * float64(x) / MAX_16
	return Clip16(int32(SOFTCLIP_ATAN_SCALE * math.Atan(n)))
}

// SoftClipCubic is x - x^3/6.75 on the normalised input, flat beyond ±1.5.
func SoftClipCubic(x int16, drive float64) int16 {
	n := clampFloat(drive*float64(x)/MAX_16, -CUBIC_LIMIT, CUBIC_LIMIT)
	return floatToSample(n - n*n*n/6.75)
}

// SoftClipTanh uses the Padé form x(27+x^2)/(27+9x^2), exact at ±3.
func SoftClipTanh(x int16, drive float64) int16 {
	n := clampFloat(drive*float64(x)/MAX_16, -PADE_LIMIT, PADE_LIMIT)
	n2 := n * n
	return floatToSample(n * (27 + n2) / (27 + 9*n2))
}

// SoftClipTube saturates the two halves differently: 1 - e^-x above zero,
// e^x - 1 below with reduced drive.
func SoftClipTube(x int16, drive float64) int16 {
	n := drive * float64(x) / MAX_16
	if n >= 0 {
		return floatToSample(1 - math.Exp(-n))
	}
	return floatToSample(math.Exp(TUBE_NEG_DRIVE*n) - 1)
}

// SoftClipRational is x*t/(t+|x|) after a Q10 drive. Integer only.
func SoftClipRational(x int16, threshold int32, drive Q10) int16 {
	if threshold <= 0 {
		return x
	}
	v := (int64(x) * int64(drive)) >> 10
	abs := v
	if abs < 0 {
		abs = -abs
	}
	return Clip16(int32(v * int64(threshold) / (int64(threshold) + abs)))
}

// FoldBack reflects once at ±1 and clips what remains.
func FoldBack(x int16, drive float64) int16 {
	n := drive * float64(x) / MAX_16
	if n > 1 {
		n = 2 - n
	} else if n < -1 {
		n = -2 - n
	}
	return floatToSample(clampFloat(n, -1, 1))
}

// Overdrive is a pre-filtered three-segment soft clipper: linear up to a
// third of full scale, a quadratic knee to two thirds, then hard clip.
type Overdrive struct {
	pre    *EMA
	amount float64
}

func NewOverdrive(rate Rate) *Overdrive {
	o := &Overdrive{pre: NewEMA(rate), amount: 1}
	o.pre.SetFreq(OVERDRIVE_PREFILTER_HZ)
	return o
}

// SetAmount sets the drive, at least 1.
func (o *Overdrive) SetAmount(a float64) { o.amount = max(a, 1) }

func (o *Overdrive) Next(x int16) int16 {
	n := o.amount * float64(o.pre.Next(x)) / MAX_16
	abs := math.Abs(n)
	var y float64
	switch {
	case abs < 1.0/3:
		y = 2 * abs
	case abs < 2.0/3:
		k := 2 - 3*abs
		y = (3 - k*k) / 3
	default:
		y = 1
	}
	if n < 0 {
		y = -y
	}
	return floatToSample(y)
}

// Compression is a static compressor: above thresh*MAX_16 the excess is
// divided by ratio, then makeup gain 1 + (1 - thresh*(1 + 1/ratio)) is
// applied. The makeup never attenuates.
func Compression(x int16, thresh, ratio float64) int16 {
	thresh = clampFloat(thresh, 0, 1)
	if ratio < 1 {
		ratio = 1
	}
	t := thresh * MAX_16
	v := float64(x)
	abs := math.Abs(v)
	if abs > t {
		abs = (abs-t)/ratio + t
		if v < 0 {
			v = -abs
		} else {
			v = abs
		}
	}
	gain := max(1, 1+(1-thresh*(1+1/ratio)))
	return Clip16(int32(v * gain))
}

// Compressor is a feed-forward compressor with an attack/release envelope
// follower, for bus levelling where the static curve pumps too hard.
type Compressor struct {
	thresh  float64 // Linear, 0..1 of full scale
	ratio   float64
	makeup  float64
	attack  float64 // Follower coefficients per sample
	release float64
	env     float64
	rate    Rate
}

func NewCompressor(rate Rate) *Compressor {
	c := &Compressor{rate: rate, thresh: 0.5, ratio: 4, makeup: 1}
	c.SetAttack(5)
	c.SetRelease(100)
	return c
}

// SetThreshold sets the knee as a fraction of full scale. Values outside
// [0, 1] are ignored.
func (c *Compressor) SetThreshold(t float64) {
	if t < 0 || t > 1 {
		return
	}
	c.thresh = t
}

func (c *Compressor) SetRatio(r float64)  { c.ratio = max(r, 1) }
func (c *Compressor) SetMakeup(g float64) { c.makeup = max(g, 0) }
func (c *Compressor) SetAttack(ms float64) {
	c.attack = c.coef(ms)
}
func (c *Compressor) SetRelease(ms float64) {
	c.release = c.coef(ms)
}

func (c *Compressor) coef(ms float64) float64 {
	if ms <= 0 {
		return 1
	}
	return 1 - math.Exp(-1/(ms*c.rate.Hz()/1000))
}

func (c *Compressor) Next(x int16) int16 {
	level := math.Abs(float64(x)) / MAX_16
	k := c.release
	if level > c.env {
		k = c.attack
	}
	c.env += (level - c.env) * k

	gain := c.makeup
	if c.env > c.thresh && c.env > 0 {
		gain *= (c.thresh + (c.env-c.thresh)/c.ratio) / c.env
	}
	return Clip16(int32(float64(x) * gain))
}
