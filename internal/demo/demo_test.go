// demo_test.go - Patch script and demo synth tests

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

package demo

import (
	"math"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/intuitionamiga/m32"
)

func TestLoadPatch(t *testing.T) {
	src := `
bpm = 96
waveform = "triangle"
filter = "svf2"
cutoff = 0.5
notes = {60, 64, 67}
direction = "down"
amp = { attack = 20, release = 400 }
pattern = euclid(8, 3)
hits = pattern[1] + pattern[4] + pattern[6]
steps = #pattern
a4 = mtof(69)
`
	p, err := LoadPatch(src)
	if err != nil {
		t.Fatalf("LoadPatch: %v", err)
	}
	if p.BPM != 96 || p.Waveform != "triangle" || p.Filter != "svf2" || p.Cutoff != 0.5 {
		t.Errorf("scalars: %+v", p)
	}
	if !slices.Equal(p.Notes, []int{60, 64, 67}) || p.Direction != "down" {
		t.Errorf("arp: %v %s", p.Notes, p.Direction)
	}
	if p.Amp.Attack != 20 || p.Amp.Release != 400 {
		t.Errorf("amp env: %+v", p.Amp)
	}
	// Unset fields keep their defaults.
	if p.Amp.Decay != DefaultPatch().Amp.Decay || p.Room != DefaultPatch().Room {
		t.Error("defaults lost")
	}
	if p.Hits != 3 || p.Steps != 8 {
		t.Errorf("euclid helper: %d hits of %d", p.Hits, p.Steps)
	}
}

func TestLoadPatchErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"syntax", "bpm = = 3", "patch"},
		{"waveform", `waveform = "kazoo"`, "waveform"},
		{"direction", `direction = "sideways"`, "direction"},
		{"filter", `filter = "comb"`, "filter"},
		{"tempo", "bpm = 0", "tempo"},
	}
	for _, tc := range tests {
		_, err := LoadPatch(tc.src)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %v, want one mentioning %q", tc.name, err, tc.want)
		}
	}
}

func render(g m32.Graph, frames int) []int16 {
	buf := make([]int16, 2*frames)
	m32.Render(g, buf)
	return buf
}

func channelRMS(buf []int16, ch int) float64 {
	var sum float64
	n := 0
	for i := ch; i < len(buf); i += 2 {
		sum += float64(buf[i]) * float64(buf[i])
		n++
	}
	return math.Sqrt(sum / float64(n))
}

func TestSynthArpPlays(t *testing.T) {
	for _, filter := range []string{"ladder", "svf", "svf2"} {
		for _, reverb := range []string{"verb", "hall"} {
			s := NewSynth(m32.Rate48000)
			p := DefaultPatch()
			p.Filter = filter
			p.Reverb = reverb
			s.Apply(p)
			buf := render(s, 48000)
			l, r := channelRMS(buf, 0), channelRMS(buf, 1)
			t.Logf("%s/%s: rms %.0f / %.0f", filter, reverb, l, r)
			if l < 500 || r < 500 {
				t.Errorf("%s/%s: arp too quiet: %.0f / %.0f", filter, reverb, l, r)
			}
		}
	}
}

func TestSynthSilentWithoutNotes(t *testing.T) {
	s := NewSynth(m32.Rate44100)
	p := DefaultPatch()
	p.Arp = false
	p.Notes = nil
	s.Apply(p)
	buf := render(s, 44100)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %d with no notes held", i, v)
		}
	}

	s.NoteOn(57)
	buf = render(s, 4410)
	if channelRMS(buf, 0) < 500 {
		t.Error("held note is silent")
	}
	s.NoteOff(57)
	render(s, 2*44100)
	buf = render(s, 4410)
	if channelRMS(buf, 0) > 200 {
		t.Errorf("released note still sounding: %.0f", channelRMS(buf, 0))
	}
}

func TestSynthSyncOut(t *testing.T) {
	s := NewSynth(m32.Rate48000)
	s.SetSyncOut(true)
	buf := render(s, 47000)
	edges := 0
	prev := int16(0)
	for i := 1; i < len(buf); i += 2 {
		if buf[i] == m32.MAX_16 && prev == 0 {
			edges++
		}
		prev = buf[i]
	}
	// 120 BPM sixteenths: eight steps before the one second mark.
	if edges != 8 {
		t.Errorf("%d sync pulses, want 8", edges)
	}
}

func TestSynthConcurrentControl(t *testing.T) {
	s := NewSynth(m32.Rate44100)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		render(s, 22050)
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.NoteOn(48 + i%24)
			s.SetCutoff(float64(i%10) / 10)
			s.SetTempo(100 + float64(i%40))
			s.NoteOff(48 + i%24)
		}
	}()
	wg.Wait()
	if bpm := s.Tempo(); bpm < 100 || bpm >= 140 {
		t.Errorf("tempo = %.1f", bpm)
	}
}

func TestTapTogglesArpNotes(t *testing.T) {
	s := NewSynth(m32.Rate44100)
	s.SetArp(true)
	s.Tap(60, 100)
	s.Tap(64, 100)
	s.Tap(60, 100)
	if s.arp.Size() != 1 || !s.arp.Contains(64) {
		t.Errorf("arp holds %d notes", s.arp.Size())
	}
	s.AllNotesOff()
	if s.arp.Size() != 0 {
		t.Error("AllNotesOff left notes")
	}
}

func TestKickSample(t *testing.T) {
	k := KickSample(m32.Rate44100)
	if len(k) != m32.Rate44100.Samples(KICK_MS) {
		t.Fatalf("kick is %d samples", len(k))
	}
	peak := 0
	for _, v := range k {
		peak = max(peak, int(v), -int(v))
	}
	if peak < 20000 {
		t.Errorf("kick peak %d", peak)
	}
	if tail := k[len(k)-100:]; math.Abs(float64(tail[50])) > 3000 {
		t.Errorf("kick tail not decayed: %d", tail[50])
	}
}
