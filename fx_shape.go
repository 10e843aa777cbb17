// fx_shape.go - Table waveshaper and its curve generators

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

// Shaper maps each sample through a TABLE_SIZE transfer curve and blends
// the result with the dry signal.
type Shaper struct {
	table  Wavetable
	amount Q10
}

// NewShaper returns a shaper over table at full amount. Invalid tables
// leave the shaper as a pass-through.
func NewShaper(table Wavetable) *Shaper {
	s := &Shaper{amount: Q10_ONE}
	s.SetTable(table)
	return s
}

func (s *Shaper) SetTable(t Wavetable) {
	if !t.Valid() {
		logf("shaper: table must have %d entries, got %d", TABLE_SIZE, len(t))
		return
	}
	s.table = t
}

// SetAmount sets the wet share, 0..1. Other values are ignored.
func (s *Shaper) SetAmount(a float64) {
	if a < 0 || a > 1 {
		return
	}
	s.amount = Q10FromFloat(a)
}

func (s *Shaper) Next(x int16) int16 {
	if s.table == nil {
		return x
	}
	idx := int((int32(x) + MAX_16) * TABLE_SIZE / (2 * MAX_16))
	idx = min(max(idx, 0), TABLE_MASK)
	return Mix(x, s.table[idx], s.amount)
}

// tableInput is the normalised input value a shaper table entry maps.
func tableInput(i int) float64 {
	return float64(i)*2/TABLE_SIZE - 1
}

// FillSoftClip bakes an atan curve with the given drive into t.
func (t Wavetable) FillSoftClip(drive float64) {
	drive = max(drive, 0.01)
	norm := math.Atan(drive)
	for i := range t {
		t[i] = floatToSample(math.Atan(drive*tableInput(i)) / norm)
	}
}

// FillSigmoid bakes a logistic curve; steep at high k.
func (t Wavetable) FillSigmoid(k float64) {
	k = max(k, 0.01)
	norm := 2/(1+math.Exp(-k)) - 1
	for i := range t {
		t[i] = floatToSample((2/(1+math.Exp(-k*tableInput(i))) - 1) / norm)
	}
}

// FillJitter is the identity curve with uniform noise of up to amount
// (0..1 of full scale) added to every entry.
func (t Wavetable) FillJitter(rng *Rand, amount float64) {
	amount = clampFloat(amount, 0, 1)
	for i := range t {
		n := (rng.Float()*2 - 1) * amount
		t[i] = floatToSample(clampFloat(tableInput(i)+n, -1, 1))
	}
}
