// filter_test.go - SVF, SVF2, ladder, EMA and average tests

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
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"
)

// Bin-centred test tones for a 4096 point FFT at 44.1 kHz.
const (
	fftSize = 4096
	lowBin  = 19  // ~205 Hz
	highBin = 465 // ~5006 Hz
)

func binHz(bin int) float64 { return float64(bin) * 44100 / fftSize }

// toneResponse runs two equal tones through next and returns the output
// magnitude at the high tone over the magnitude at the low tone.
func toneResponse(next func(int16) int16) float64 {
	lo := sineSamples(Rate44100, binHz(lowBin), 8000, 2*fftSize)
	hi := sineSamples(Rate44100, binHz(highBin), 8000, 2*fftSize)
	frame := make([]float64, fftSize)
	for i := 0; i < 2*fftSize; i++ {
		y := next(lo[i] + hi[i])
		if i >= fftSize {
			frame[i-fftSize] = float64(y)
		}
	}
	bins := fft.FFTReal(frame)
	return cmplx.Abs(bins[highBin]) / cmplx.Abs(bins[lowBin])
}

func TestFilterSpectra(t *testing.T) {
	tests := []struct {
		name    string
		next    func(int16) int16
		lowPass bool
	}{
		{"svf lpf", func() func(int16) int16 { s := NewSVF(Rate44100); s.SetFreq(500); return s.LPF }(), true},
		{"svf hpf", func() func(int16) int16 { s := NewSVF(Rate44100); s.SetFreq(2000); return s.HPF }(), false},
		{"svf2 lpf", func() func(int16) int16 { s := NewSVF2(Rate44100); s.SetFreq(500); return s.LPF }(), true},
		{"svf2 hpf", func() func(int16) int16 { s := NewSVF2(Rate44100); s.SetFreq(2000); return s.HPF }(), false},
		{"bob", func() func(int16) int16 { b := NewBob(Rate44100); b.SetFreq(500); return b.Next }(), true},
		{"ema lpf", func() func(int16) int16 { e := NewEMA(Rate44100); e.SetFreq(200); return e.Next }(), true},
		{"ema hpf", func() func(int16) int16 { e := NewEMA(Rate44100); e.SetFreq(1500); return e.NextHPF }(), false},
	}
	for _, tc := range tests {
		ratio := toneResponse(tc.next)
		t.Logf("%-8s high/low = %.4f", tc.name, ratio)
		if tc.lowPass && ratio > 0.1 {
			t.Errorf("%s: high tone only down to %.3f of the low tone", tc.name, ratio)
		}
		if !tc.lowPass && ratio < 3 {
			t.Errorf("%s: low tone not attenuated, ratio %.3f", tc.name, ratio)
		}
	}
}

func TestSVF2CutoffSweep(t *testing.T) {
	const (
		tone  = 440.0
		steps = 200
	)
	in := sineSamples(Rate44100, tone, 16000, 8820)
	inRMS := rms(in[4410:])

	found := -1.0
	for k := 0; k <= steps; k++ {
		c := float64(k) / steps
		s := NewSVF2(Rate44100)
		s.SetCutoff(c)
		out := make([]int16, len(in))
		for i, x := range in {
			out[i] = s.Next(x)
		}
		if rms(out[4410:])/inRMS >= 1/math.Sqrt2 {
			found = cutoffToHz(c)
			break
		}
	}
	if found < 0 {
		t.Fatal("440 Hz never passed at -3 dB")
	}
	t.Logf("440 Hz reaches -3 dB at cutoff %.1f Hz", found)
	if math.Abs(found-tone)/tone > 0.15 {
		t.Errorf("-3 dB cutoff %.1f Hz more than 15%% from %.0f Hz", found, tone)
	}
}

func TestSVFModesBounded(t *testing.T) {
	modes := []FilterMode{FILTER_LPF, FILTER_HPF, FILTER_BPF, FILTER_NOTCH, FILTER_ALLPASS}
	for _, m := range modes {
		rng := NewRand(uint32(m) + 1)
		s := NewSVF(Rate48000)
		s.SetMode(m)
		s.SetRes(1)
		s.SetCutoff(0.7)
		s2 := NewSVF2(Rate48000)
		s2.SetMode(m)
		s2.SetRes(1)
		s2.SetCutoff(0.7)
		for i := 0; i < 48000; i++ {
			x := rng.Sample()
			if v := s.Next(x); v < MIN_16 {
				t.Fatalf("svf mode %d: %d", m, v)
			}
			if v := s2.Next(x); v < MIN_16 {
				t.Fatalf("svf2 mode %d: %d", m, v)
			}
		}
		if s.low > SVF_MAX_STATE || s.low < -SVF_MAX_STATE {
			t.Errorf("svf mode %d: state %d escaped the clamp", m, s.low)
		}
	}
}

func TestSVFResonanceClamp(t *testing.T) {
	s := NewSVF(Rate44100)
	s.SetRes(0)
	if s.res != SVF_MIN_RES {
		t.Errorf("res = %f, want %f", s.res, SVF_MIN_RES)
	}
	s.SetRes(2)
	if s.res != SVF_MAX_RES {
		t.Errorf("res = %f, want %f", s.res, SVF_MAX_RES)
	}
	s.SetFreq(30000)
	if s.Freq() > 44100.0/6 {
		t.Errorf("freq %f above the stable limit", s.Freq())
	}
}

func TestFilterNaNRecovery(t *testing.T) {
	s2 := NewSVF2(Rate44100)
	s2.buf0 = math.NaN()
	s2.Next(1000)
	if math.IsNaN(s2.buf0) || math.IsNaN(s2.buf1) {
		t.Error("svf2 kept NaN state")
	}

	s2.buf1 = 2 * FILTER_MAX_STATE
	s2.Next(0)
	if s2.buf1 != 0 {
		t.Errorf("svf2 runaway state = %f, want reset", s2.buf1)
	}

	b := NewBob(Rate44100)
	b.z1[2] = float32(math.NaN())
	if v := b.Next(1000); v != 0 {
		t.Errorf("bob output on reset = %d, want 0", v)
	}
	for i := range b.z1 {
		if b.z1[i] != 0 || b.z0[i] != 0 {
			t.Fatalf("bob stage %d not reset", i)
		}
	}
}

func TestBobResonanceBounded(t *testing.T) {
	b := NewBob(Rate48000)
	b.SetRes(1)
	b.SetCutoff(0.6)
	rng := NewRand(9)
	for i := 0; i < 48000; i++ {
		b.Next(rng.Sample())
		for j := range b.z1 {
			if math.Abs(float64(b.z1[j])) > BOB_STATE_CLIP {
				t.Fatalf("stage %d = %f after %d samples", j, b.z1[j], i)
			}
		}
	}
	b.SetFreq(1e6)
	if b.Freq() > 48000*BOB_MAX_FREQ {
		t.Errorf("cutoff %f above the limit", b.Freq())
	}
}

func TestEMA(t *testing.T) {
	e := NewEMA(Rate44100)
	var y int16
	for i := 0; i < 10000; i++ {
		y = e.Next(10000)
	}
	if y < 9990 || y > 10000 {
		t.Errorf("lpf settled at %d, want about 10000", y)
	}
	for i := 0; i < 10000; i++ {
		y = e.NextHPF(10000)
	}
	if y < -1 || y > 1 {
		t.Errorf("hpf of DC settled at %d, want 0", y)
	}

	e.SetCutoff(0)
	if e.Alpha() != EMA_MIN_ALPHA {
		t.Errorf("alpha at cutoff 0 = %d, want %d", e.Alpha(), EMA_MIN_ALPHA)
	}
	e.SetCutoff(1)
	if e.Alpha() != Q10_ONE {
		t.Errorf("alpha at cutoff 1 = %d, want %d", e.Alpha(), Q10_ONE)
	}
}

func TestAve(t *testing.T) {
	a := NewAve()
	for _, x := range []int16{0, 1000, -32767, 32767, 5} {
		if got := a.Next(x); got != x {
			t.Errorf("open average: Next(%d) = %d", x, got)
		}
	}

	a = NewAve()
	a.SetCutoff(0)
	if got := a.Next(7100); got != 100 {
		t.Errorf("closed average first step = %d, want 7100/71", got)
	}
}

func TestSilenceStaysSilent(t *testing.T) {
	osc := NewOsc(Rate48000, NewWavetable())
	osc.SetFreq(440)
	svf, svf2, bob := NewSVF(Rate48000), NewSVF2(Rate48000), NewBob(Rate48000)
	ema, ave := NewEMA(Rate48000), NewAve()
	del := NewDel(Rate48000, 500)
	all, comb, apf := NewAll(Rate48000, 50), NewComb(Rate48000, 50), NewAPF(Rate48000, 50)

	chains := []struct {
		name string
		next func(int16) int16
	}{
		{"osc", func(int16) int16 { return osc.Next() }},
		{"ave", ave.Next},
		{"svf", svf.Next},
		{"svf2", svf2.Next},
		{"bob", bob.Next},
		{"ema", ema.Next},
		{"del", del.Next},
		{"all", all.Next},
		{"comb", comb.Next},
		{"apf", apf.Next},
	}
	for _, c := range chains {
		for i := 0; i < 48000; i++ {
			if v := c.next(0); v != 0 {
				t.Fatalf("%s: sample %d = %d, want 0", c.name, i, v)
			}
		}
	}
}
