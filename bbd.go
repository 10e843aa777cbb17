// bbd.go - Bucket-brigade delay emulation

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

const (
	BBD_SIZE = 4096         // Buckets, power of two
	BBD_MASK = BBD_SIZE - 1 // Mask for fast modulo

	BBD_MIN_SCAN = 0.01 // Slowest clock, longest and darkest delay
	BBD_MAX_SCAN = 3.0  // Fastest clock
	BBD_KNEE     = 24000
)

// bbdDarken holds the output one-pole coefficients selected by SetFiltered,
// brightest first, in Q10.
var bbdDarken = [5]Q10{Q10_ONE, 768, 512, 256, 128}

// BBD runs a fixed bank of buckets at a variable clock. The delay time is
// set by the scan rate, so long delays are both slower and darker, as on
// the analogue parts.
type BBD struct {
	buf   [BBD_SIZE]int16
	write int
	phase Fix16 // Fractional bucket position
	scan  Fix16 // Buckets per output frame

	acc      int32 // Input accumulated since the last bucket step
	accCount int32
	hold     int32 // Sample-and-hold output

	filtered int   // 0 bypass, 1..4 darker
	dark     int32 // Darkening filter state
	smooth   int32 // Rate-scaled smoother state
	smoothK  Q15   // Smoother coefficient

	feedback Q10
	rate     Rate
}

// NewBBD returns a BBD at scan rate 1, a delay of BBD_SIZE frames.
func NewBBD(rate Rate) *BBD {
	b := &BBD{rate: rate, filtered: 1}
	b.SetScan(1)
	return b
}

// BaseMs is the delay at scan rate 1.
func (b *BBD) BaseMs() float64 { return b.rate.Ms(BBD_SIZE) }

// MinDelayMs is the shortest delay reachable at the top scan rate.
func (b *BBD) MinDelayMs() float64 { return b.BaseMs() / BBD_MAX_SCAN }

// MaxDelayMs is the longest delay reachable at the bottom scan rate.
func (b *BBD) MaxDelayMs() float64 { return b.BaseMs() / BBD_MIN_SCAN }

// SetScan sets the bucket clock relative to the output rate, clamped to
// [BBD_MIN_SCAN, BBD_MAX_SCAN].
func (b *BBD) SetScan(rate float64) {
	rate = clampFloat(rate, BBD_MIN_SCAN, BBD_MAX_SCAN)
	b.scan = Fix16FromFloat(rate)
	b.smoothK = Q15(2048 + int32(min(1, rate)*6144))
}

func (b *BBD) Scan() float64 { return b.scan.Float() }

// SetTime sets the delay in ms by choosing the scan rate.
func (b *BBD) SetTime(ms float64) {
	if ms <= 0 {
		return
	}
	b.SetScan(b.BaseMs() / ms)
}

// SetFiltered picks the output darkening, 0 (off) to 4 (darkest).
func (b *BBD) SetFiltered(n int) { b.filtered = clampInt(n, 0, 4) }

// SetFeedback sets how much of the held output is fed back, 0..1.
func (b *BBD) SetFeedback(level float64) {
	if level < 0 || level > 1 {
		return
	}
	b.feedback = Q10FromFloat(level)
}

func (b *BBD) Next(x int16) int16 {
	b.acc += int32(x)
	b.accCount++

	b.phase += b.scan
	steps := int(b.phase.Int())
	b.phase = Fix16(b.phase.Frac())

	if steps > 0 {
		in := b.acc / b.accCount
		b.acc, b.accCount = 0, 0
		if b.feedback > 0 {
			in = int32(softLimit(in+b.feedback.Mul(b.hold), BBD_KNEE))
		}
		s := Clip16(in)
		for i := 0; i < steps; i++ {
			b.write = (b.write + 1) & BBD_MASK
			b.buf[b.write] = s
		}
		b.hold = int32(b.buf[(b.write+1)&BBD_MASK])
	}

	out := b.hold
	if b.filtered > 0 {
		b.dark += bbdDarken[b.filtered].Mul(out - b.dark)
		out = b.dark
	}
	b.smooth += b.smoothK.Mul(out - b.smooth)
	return Clip16(b.smooth)
}
