// fixed_test.go - Fixed-point primitive and RNG tests

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
	"math"
	"testing"
)

// sineSamples returns n samples of a sine at freq Hz and amplitude amp.
func sineSamples(rate Rate, freq float64, amp float64, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(amp * math.Sin(TWO_PI*freq*float64(i)/rate.Hz()))
	}
	return out
}

func rms(x []int16) float64 {
	if len(x) == 0 {
		return 0
	}
	var acc float64
	for _, v := range x {
		acc += float64(v) * float64(v)
	}
	return math.Sqrt(acc / float64(len(x)))
}

func TestClip16(t *testing.T) {
	tests := []struct {
		in   int32
		want int16
	}{
		{0, 0},
		{1234, 1234},
		{-1234, -1234},
		{MAX_16, MAX_16},
		{MAX_16 + 1, MAX_16},
		{MIN_16, MIN_16},
		{-32768, MIN_16},
		{1 << 30, MAX_16},
		{-(1 << 30), MIN_16},
	}
	for _, tc := range tests {
		if got := Clip16(tc.in); got != tc.want {
			t.Errorf("Clip16(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSoftLimit(t *testing.T) {
	if got := softLimit(1000, 24576); got != 1000 {
		t.Errorf("below knee: got %d, want 1000", got)
	}
	// 24576 + (28576-24576)/4
	if got := softLimit(28576, 24576); got != 25576 {
		t.Errorf("above knee: got %d, want 25576", got)
	}
	if got := softLimit(-28576, 24576); got != -25576 {
		t.Errorf("below -knee: got %d, want -25576", got)
	}
	if got := softLimit(1<<20, 24576); got != MAX_16 {
		t.Errorf("far above knee: got %d, want clip", got)
	}
}

func TestMtof(t *testing.T) {
	if got := Mtof(69); math.Abs(got-440) > 1e-6 {
		t.Errorf("Mtof(69) = %.9f, want 440", got)
	}
	if got := Mtof(81); math.Abs(got-880) > 1e-5 {
		t.Errorf("Mtof(81) = %.9f, want 880", got)
	}
	if got := Mtof(0); got != 0 {
		t.Errorf("Mtof(0) = %f, want 0", got)
	}
}

func TestPanConstantPower(t *testing.T) {
	for _, p := range []float64{0, 0.1, 0.25, 0.5, 0.9, 1} {
		l, r := PanLeft(p), PanRight(p)
		if math.Abs(l*l+r*r-1) > 1e-9 {
			t.Errorf("pan %.2f: l²+r² = %f", p, l*l+r*r)
		}
	}
	l, r := Pan(20000, 0)
	if l != 20000 || r != 0 {
		t.Errorf("Pan(20000, 0) = %d, %d; want hard left", l, r)
	}
	l, r = Pan(20000, 1)
	if l != 0 || r != 20000 {
		t.Errorf("Pan(20000, 1) = %d, %d; want hard right", l, r)
	}
}

func TestMix(t *testing.T) {
	if got := Mix(1000, -1000, 0); got != 1000 {
		t.Errorf("level 0: got %d", got)
	}
	if got := Mix(1000, -1000, Q10_ONE); got != -1000 {
		t.Errorf("level 1: got %d", got)
	}
	if got := Mix(1000, -1000, Q10_ONE/2); got != 0 {
		t.Errorf("level 0.5: got %d", got)
	}
}

func TestFixedPointTypes(t *testing.T) {
	if Q10FromFloat(0.5) != 512 {
		t.Errorf("Q10FromFloat(0.5) = %d", Q10FromFloat(0.5))
	}
	if got := Q10(512).Mul(1000); got != 500 {
		t.Errorf("Q10 mul: got %d", got)
	}
	if got := Q15FromFloat(0.25).Mul(-4000); got != -1000 {
		t.Errorf("Q15 mul: got %d", got)
	}
	f := Fix16FromFloat(3.25)
	if f.Int() != 3 || f.Frac() != 0x4000 {
		t.Errorf("Fix16 3.25: int %d frac %#x", f.Int(), f.Frac())
	}
	if got := Rate44100.Samples(500); got != 22050 {
		t.Errorf("Samples(500) = %d", got)
	}
	if got := Rate48000.Ms(48); got != 1 {
		t.Errorf("Ms(48) = %f", got)
	}
}

func TestRandDeterministic(t *testing.T) {
	a, b := NewRand(0), NewRand(0)
	for i := 0; i < 1000; i++ {
		if a.Uint32() != b.Uint32() {
			t.Fatalf("streams diverged at %d", i)
		}
	}
	c := NewRand(42)
	same := true
	a.Seed(0)
	for i := 0; i < 16; i++ {
		if a.Uint32() != c.Uint32() {
			same = false
		}
	}
	if same {
		t.Error("seed 42 reproduced the canonical stream")
	}
}

func TestRandRanges(t *testing.T) {
	r := NewRand(7)
	seen := map[int32]bool{}
	for i := 0; i < 10000; i++ {
		v := r.Range(-3, 3)
		if v < -3 || v > 3 {
			t.Fatalf("Range(-3, 3) = %d", v)
		}
		seen[v] = true
		if n := r.Intn(10); n < 0 || n >= 10 {
			t.Fatalf("Intn(10) = %d", n)
		}
		if f := r.Float(); f < 0 || f >= 1 {
			t.Fatalf("Float() = %f", f)
		}
		if s := r.Sample(); s < MIN_16 {
			t.Fatalf("Sample() = %d", s)
		}
	}
	if len(seen) != 7 {
		t.Errorf("Range(-3, 3) hit %d distinct values, want 7", len(seen))
	}
}
