// fixed.go - Fixed-point primitives shared by every M32 block

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
	MAX_16 = 32767  // Largest sample value
	MIN_16 = -32767 // Smallest sample value (symmetric)

	TABLE_SIZE = 2048           // Entries in every wavetable
	TABLE_MASK = TABLE_SIZE - 1 // Mask for fast modulo

	MAX_ENV_LEVEL = 32766 // Envelope full scale

	MAX_BUFFER_SECONDS = 10 // Largest delay buffer any block will allocate
)

// Rate is the output sample rate a block is built for.
type Rate int

const (
	Rate44100 Rate = 44100
	Rate48000 Rate = 48000
)

// Hz returns the rate as a float for coefficient maths.
func (r Rate) Hz() float64 { return float64(r) }

// Samples converts milliseconds to a whole number of samples at this rate.
func (r Rate) Samples(ms float64) int {
	return int(math.Round(ms * float64(r) / 1000))
}

// Ms converts a sample count back to milliseconds.
func (r Rate) Ms(samples int) float64 {
	return float64(samples) * 1000 / float64(r)
}

// MaxBufferSamples is the allocation ceiling for delay-family buffers.
func (r Rate) MaxBufferSamples() int { return int(r) * MAX_BUFFER_SECONDS }

// Q10 is a level or coefficient with 10 fractional bits (1024 = 1.0).
type Q10 int32

const Q10_ONE Q10 = 1024

// Q10FromFloat converts a 0..1 style level to Q10, rounding to nearest.
func Q10FromFloat(f float64) Q10 { return Q10(math.Round(f * 1024)) }

// Q10Curve maps a 0..1 level through pow(level, 0.4), the curve used by
// the comb and lattice allpass coefficients.
func Q10Curve(level float64) Q10 { return Q10FromFloat(math.Pow(level, 0.4)) }

// Mul scales x by q.
func (q Q10) Mul(x int32) int32 { return int32((int64(x) * int64(q)) >> 10) }

// Float returns q as a float.
func (q Q10) Float() float64 { return float64(q) / 1024 }

// Q15 is a smoothing coefficient with 15 fractional bits (32768 = 1.0).
type Q15 int32

const Q15_ONE Q15 = 32768

// Q15FromFloat converts f to Q15.
func Q15FromFloat(f float64) Q15 { return Q15(math.Round(f * 32768)) }

// Mul scales x by q using a 64-bit intermediate.
func (q Q15) Mul(x int32) int32 { return int32((int64(x) * int64(q)) >> 15) }

// Fix16 is an unsigned 16.16 phase or rate.
type Fix16 uint32

const FIX16_ONE Fix16 = 1 << 16

// Fix16FromFloat converts f (must be non-negative) to 16.16.
func Fix16FromFloat(f float64) Fix16 { return Fix16(math.Round(f * 65536)) }

// Int returns the integer part.
func (f Fix16) Int() uint32 { return uint32(f) >> 16 }

// Frac returns the fractional part as 0..65535.
func (f Fix16) Frac() uint32 { return uint32(f) & 0xFFFF }

// Float returns f as a float.
func (f Fix16) Float() float64 { return float64(f) / 65536 }

// Clip16 saturates x to [MIN_16, MAX_16].
func Clip16(x int32) int16 {
	if x > MAX_16 {
		return MAX_16
	}
	if x < MIN_16 {
		return MIN_16
	}
	return int16(x)
}

// softLimit compresses anything beyond ±knee to a quarter slope and then
// clips. Used inside feedback loops that must not hard-clip.
func softLimit(x, knee int32) int16 {
	if x > knee {
		x = knee + (x-knee)>>2
	} else if x < -knee {
		x = -knee + (x+knee)>>2
	}
	return Clip16(x)
}

// Mtof converts a (fractional) MIDI note to Hz. Notes at or below zero give 0.
func Mtof(m float64) float64 {
	if m <= 0 {
		return 0
	}
	return 8.1757989156 * math.Pow(2, m/12)
}

// PanLeft returns the left gain for a constant-power pan position p in
// [0, 1]. p = 0 is hard left.
func PanLeft(p float64) float64 {
	p = clampFloat(p, 0, 1)
	return math.Cos(p * math.Pi / 2)
}

// PanRight returns the right gain for pan position p.
func PanRight(p float64) float64 {
	p = clampFloat(p, 0, 1)
	return math.Cos((1 - p) * math.Pi / 2)
}

// Pan spreads a mono sample over two channels.
func Pan(x int16, p float64) (left, right int16) {
	l := Q10FromFloat(PanLeft(p))
	r := Q10FromFloat(PanRight(p))
	return Clip16(l.Mul(int32(x))), Clip16(r.Mul(int32(x)))
}

// Mix crossfades a into b. level 0 gives a, Q10_ONE gives b.
func Mix(a, b int16, level Q10) int16 {
	if level < 0 {
		level = 0
	} else if level > Q10_ONE {
		level = Q10_ONE
	}
	return Clip16((int32(a)*int32(Q10_ONE-level) + int32(b)*int32(level)) >> 10)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// floatToSample converts a normalised float to a clipped sample.
func floatToSample(v float64) int16 {
	if math.IsNaN(v) {
		return 0
	}
	v *= MAX_16
	if v >= MAX_16 {
		return MAX_16
	}
	if v <= MIN_16 {
		return MIN_16
	}
	return int16(v)
}
