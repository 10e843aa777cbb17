// seq_test.go - Sequencer, pattern and step timer tests

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
	"slices"
	"testing"
)

func TestGenerateEuclidean(t *testing.T) {
	tests := []struct {
		steps, hits, rotate int
		want                []int
	}{
		{16, 4, 0, []int{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}},
		{8, 3, 0, []int{1, 0, 0, 1, 0, 1, 0, 0}},
		{8, 3, 2, []int{0, 0, 1, 0, 0, 1, 0, 1}},
		{5, 1, 0, []int{1, 0, 0, 0, 0}},
		{4, 0, 0, []int{0, 0, 0, 0}},
		{4, 9, 0, []int{1, 1, 1, 1}},
	}
	for _, tc := range tests {
		s := NewSeq(tc.steps)
		s.GenerateEuclidean(tc.hits, tc.rotate)
		if got := s.Values(); !slices.Equal(got, tc.want) {
			t.Errorf("E(%d,%d,%d) = %v, want %v", tc.steps, tc.hits, tc.rotate, got, tc.want)
		}
	}

	s := NewSeq(16)
	s.GenerateEuclidean(7, 0)
	hits := 0
	for _, v := range s.Values() {
		hits += v
	}
	if hits != 7 || s.Get(0) != 1 {
		t.Errorf("E(16,7) = %v", s.Values())
	}
}

func TestSeqStepping(t *testing.T) {
	s := NewSeq(8)
	s.SetValues([]int{60, 62, 64})
	if s.Size() != 3 {
		t.Fatalf("size = %d, want 3", s.Size())
	}
	var got []int
	for i := 0; i < 7; i++ {
		got = append(got, s.Next())
	}
	if want := []int{60, 62, 64, 60, 62, 64, 60}; !slices.Equal(got, want) {
		t.Errorf("steps = %v, want %v", got, want)
	}

	s.SetSize(100)
	if s.Size() != 8 {
		t.Errorf("size clamped to %d, want capacity 8", s.Size())
	}
	s.Set(20, 1)
	if s.Get(-1) != 0 || s.Get(8) != 0 {
		t.Error("out of range Get returned a value")
	}

	s.SetSize(3)
	s.SetRandom(true)
	s.SetRand(NewRand(3))
	for i := 0; i < 100; i++ {
		if v := s.Next(); v != 60 && v != 62 && v != 64 {
			t.Fatalf("random step returned %d", v)
		}
		if s.Index() >= s.Size() {
			t.Fatalf("random index %d past size", s.Index())
		}
	}
}

func TestGenerateRandomWalk(t *testing.T) {
	s := NewSeq(64)
	s.SetRand(NewRand(11))
	s.GenerateRandomWalk(60, 3, 48, 72)
	vals := s.Values()
	if vals[0] != 60 {
		t.Errorf("walk starts at %d", vals[0])
	}
	for i, v := range vals {
		if v < 48 || v > 72 {
			t.Fatalf("step %d = %d out of range", i, v)
		}
		if i > 0 {
			if d := v - vals[i-1]; d < -3 || d > 3 {
				t.Fatalf("step %d moved by %d", i, d)
			}
		}
	}
}

func TestCalcStepDelta(t *testing.T) {
	tests := []struct {
		bpm, slice, div float64
		want            float64
	}{
		{120, 1, 1, 500},
		{120, 4, 1, 125},
		{90, 2, 2, 166.66666666666666},
		{0, 1, 1, 0},
		{120, 0, 1, 0},
		{120, 1, -1, 0},
	}
	for _, tc := range tests {
		if got := CalcStepDelta(tc.bpm, tc.slice, tc.div); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("CalcStepDelta(%v, %v, %v) = %v, want %v", tc.bpm, tc.slice, tc.div, got, tc.want)
		}
	}
	s := NewSeq(4)
	s.SetBPM(60)
	s.SetStepDiv(4)
	if s.StepDelta() != 250 {
		t.Errorf("StepDelta = %v", s.StepDelta())
	}
}

func TestStepTimer(t *testing.T) {
	clock := &ManualClock{}
	st := NewStepTimer(clock, 120, 4, 1)
	if st.Delta() != 125 {
		t.Fatalf("delta = %v, want 125", st.Delta())
	}

	steps := []struct {
		at  uint64
		due bool
	}{
		{0, true},
		{0, false},
		{100, false},
		{125, true},
		{249, false},
		{250, true},
		{1000, true}, // Stalled: resync instead of a burst
		{1001, false},
		{1124, false},
		{1125, true},
	}
	for _, s := range steps {
		clock.Set(s.at)
		if got := st.Due(); got != s.due {
			t.Errorf("t=%d: due %v, want %v", s.at, got, s.due)
		}
	}

	st.SetBPM(-5)
	if st.BPM() != 120 {
		t.Errorf("negative tempo applied: %v", st.BPM())
	}
	st.SetBPM(60)
	if st.Delta() != 250 {
		t.Errorf("delta at 60 BPM = %v", st.Delta())
	}
}
