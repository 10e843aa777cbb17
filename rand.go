// rand.go - xorshift96 random source

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
	RAND_SEED_X = 132456789
	RAND_SEED_Y = 362436069
	RAND_SEED_Z = 521288629
)

// Rand is a xorshift96 generator. It is not safe for concurrent use; give
// each rendering goroutine its own handle.
type Rand struct {
	x, y, z uint32
}

// DefaultRand is used by blocks that were not handed a generator.
var DefaultRand = NewRand(0)

// NewRand returns a generator. Seed 0 gives the canonical seeds so two
// generators built with the same seed produce the same stream.
func NewRand(seed uint32) *Rand {
	r := &Rand{}
	r.Seed(seed)
	return r
}

// Seed resets the generator state.
func (r *Rand) Seed(seed uint32) {
	r.x = RAND_SEED_X ^ seed
	r.y = RAND_SEED_Y ^ (seed << 7)
	r.z = RAND_SEED_Z ^ (seed >> 3)
	if r.x|r.y|r.z == 0 {
		r.x = RAND_SEED_X
	}
}

// Uint32 advances the generator.
func (r *Rand) Uint32() uint32 {
	r.x ^= r.x << 16
	r.x ^= r.x >> 5
	r.x ^= r.x << 1

	t := r.x
	r.x = r.y
	r.y = r.z
	r.z = t ^ r.x ^ r.y
	return r.z
}

// Intn returns a value in [0, max) using the low 16 bits of the stream.
func (r *Rand) Intn(max int32) int32 {
	if max <= 0 {
		return 0
	}
	return int32((int64(r.Uint32()&0xFFFF) * int64(max)) >> 16)
}

// Range returns a value in [min, max] inclusive.
func (r *Rand) Range(min, max int32) int32 {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// Float returns a value in [0, 1).
func (r *Rand) Float() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// Sample returns a uniformly distributed audio sample in [MIN_16, MAX_16].
func (r *Rand) Sample() int16 {
	return int16(r.Range(MIN_16, MAX_16))
}
