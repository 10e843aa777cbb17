// arp_test.go - Arpeggiator tests

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
	"slices"
	"testing"
)

func arpRun(a *Arp, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = a.Next()
	}
	return out
}

func TestArpPatterns(t *testing.T) {
	tests := []struct {
		name   string
		notes  []int
		dir    ArpDirection
		octave int
		want   []int
	}{
		{"order", []int{7, 0, 4}, ARP_ORDER, 1, []int{7, 0, 4, 7, 0}},
		{"up", []int{7, 0, 4}, ARP_UP, 1, []int{0, 4, 7, 0, 4}},
		{"up two octaves", []int{0, 4, 7}, ARP_UP, 2, []int{0, 4, 7, 12, 16, 19, 0}},
		{"down", []int{60, 64, 67}, ARP_DOWN, 1, []int{67, 64, 60, 67}},
		{"down two octaves", []int{60, 64, 67}, ARP_DOWN, 2, []int{79, 76, 72, 67, 64, 60, 79}},
		{"up down", []int{60, 64, 67}, ARP_UP_DOWN, 1, []int{60, 64, 67, 64, 60, 64, 67}},
		{"up down two octaves", []int{0, 4, 7}, ARP_UP_DOWN, 2, []int{0, 4, 7, 12, 16, 19, 16, 12, 7, 4, 0, 4}},
	}
	for _, tc := range tests {
		a := NewArp()
		a.SetValues(tc.notes)
		a.SetRange(tc.octave)
		a.SetDirection(tc.dir)
		if got := arpRun(a, len(tc.want)); !slices.Equal(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestArpRandomStaysInSet(t *testing.T) {
	a := NewArp()
	a.SetRand(NewRand(6))
	a.SetValues([]int{60, 63, 67})
	a.SetRange(3)
	a.SetDirection(ARP_RANDOM)
	allowed := map[int]bool{}
	for o := 0; o < 3; o++ {
		for _, n := range []int{60, 63, 67} {
			allowed[n+12*o] = true
		}
	}
	for i := 0; i < 500; i++ {
		if v := a.Next(); !allowed[v] {
			t.Fatalf("random arp played %d", v)
		}
	}
}

func TestArpNoteManagement(t *testing.T) {
	a := NewArp()
	if a.Next() != 0 {
		t.Error("empty arp played a note")
	}
	a.SetDirection(ARP_UP)
	for _, n := range []int{67, 60, 64, 60} {
		a.AddNote(n)
	}
	if a.Size() != 3 {
		t.Fatalf("size = %d, want 3 after a duplicate", a.Size())
	}
	if got := arpRun(a, 3); !slices.Equal(got, []int{60, 64, 67}) {
		t.Errorf("up = %v", got)
	}
	a.RemoveNote(67)
	a.RemoveNote(99)
	if got := arpRun(a, 4); !slices.Equal(got, []int{60, 64, 60, 64}) {
		t.Errorf("after remove = %v", got)
	}

	for i := 0; i < 20; i++ {
		a.AddNote(i)
	}
	if a.Size() != ARP_MAX_NOTES {
		t.Errorf("size = %d, want %d", a.Size(), ARP_MAX_NOTES)
	}
	a.Clear()
	if a.Size() != 0 || a.Next() != 0 {
		t.Error("Clear left notes")
	}

	a.SetRange(20)
	if a.Range() != ARP_MAX_RANGE {
		t.Errorf("range = %d", a.Range())
	}
	a.SetDirection(ArpDirection(42))
	if a.Direction() != ARP_UP {
		t.Errorf("invalid direction applied: %d", a.Direction())
	}
}
