// patch.go - Lua patch scripts for the demo synth

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
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/intuitionamiga/m32"
)

// EnvSettings are ADHSR times in ms and a 0..1 sustain level.
type EnvSettings struct {
	Attack, Hold, Decay, Sustain, Release float64
}

// Patch is every setting a script can change. Globals a script leaves
// unset keep the DefaultPatch values.
type Patch struct {
	Waveform string
	Detune   float64
	Glide    float64
	Sub      float64

	Filter    string // "ladder", "svf" or "svf2"
	Cutoff    float64
	Resonance float64
	EnvAmount float64
	Amp       EnvSettings
	FilterEnv EnvSettings

	Drive      float64
	Chorus     float64
	ChorusRate float64
	Echo       float64
	Reverb     string // "verb" or "hall"
	Room       float64
	Wet        float64

	Arp       bool
	Notes     []int
	Octaves   int
	Direction string
	Division  float64 // Steps per beat
	BPM       float64

	Steps, Hits, Rotate int
}

var arpDirections = map[string]m32.ArpDirection{
	"order":  m32.ARP_ORDER,
	"up":     m32.ARP_UP,
	"updown": m32.ARP_UP_DOWN,
	"down":   m32.ARP_DOWN,
	"random": m32.ARP_RANDOM,
}

func DefaultPatch() *Patch {
	return &Patch{
		Waveform:  "saw",
		Detune:    0.004,
		Sub:       0.5,
		Filter:    "ladder",
		Cutoff:    0.35,
		Resonance: 0.5,
		EnvAmount: 0.6,
		Amp:       EnvSettings{Attack: 5, Decay: 150, Sustain: 0.6, Release: 250},
		FilterEnv: EnvSettings{Attack: 2, Decay: 200, Sustain: 0.1, Release: 200},

		Drive:      1.5,
		Chorus:     0.5,
		ChorusRate: 0.4,
		Echo:       0.3,
		Reverb:     "verb",
		Room:       0.6,
		Wet:        0.25,

		Arp:       true,
		Notes:     []int{48, 55, 60, 63},
		Octaves:   2,
		Direction: "updown",
		Division:  4,
		BPM:       120,

		Steps: 16,
		Hits:  5,
	}
}

// LoadPatchFile runs the script at path.
func LoadPatchFile(path string) (*Patch, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := LoadPatch(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadPatch runs src in a fresh Lua state and reads the patch globals.
// Scripts get mtof(note) and euclid(steps, hits, rotate) helpers.
func LoadPatch(src string) (*Patch, error) {
	L := lua.NewState()
	defer L.Close()
	L.SetGlobal("mtof", L.NewFunction(luaMtof))
	L.SetGlobal("euclid", L.NewFunction(luaEuclid))

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}

	p := DefaultPatch()
	g := func(name string) lua.LValue { return L.GetGlobal(name) }

	readString(g("waveform"), &p.Waveform)
	readNumber(g("detune"), &p.Detune)
	readNumber(g("glide"), &p.Glide)
	readNumber(g("sub"), &p.Sub)

	readString(g("filter"), &p.Filter)
	readNumber(g("cutoff"), &p.Cutoff)
	readNumber(g("resonance"), &p.Resonance)
	readNumber(g("env_amount"), &p.EnvAmount)
	readEnv(g("amp"), &p.Amp)
	readEnv(g("filter_env"), &p.FilterEnv)

	readNumber(g("drive"), &p.Drive)
	readNumber(g("chorus"), &p.Chorus)
	readNumber(g("chorus_rate"), &p.ChorusRate)
	readNumber(g("echo"), &p.Echo)
	readString(g("reverb"), &p.Reverb)
	readNumber(g("room"), &p.Room)
	readNumber(g("wet"), &p.Wet)

	if b, ok := g("arp").(lua.LBool); ok {
		p.Arp = bool(b)
	}
	if t, ok := g("notes").(*lua.LTable); ok {
		p.Notes = p.Notes[:0]
		for i := 1; i <= t.Len(); i++ {
			if n, ok := t.RawGetInt(i).(lua.LNumber); ok {
				p.Notes = append(p.Notes, int(n))
			}
		}
	}
	readInt(g("octaves"), &p.Octaves)
	readString(g("direction"), &p.Direction)
	readNumber(g("division"), &p.Division)
	readNumber(g("bpm"), &p.BPM)

	readInt(g("steps"), &p.Steps)
	readInt(g("hits"), &p.Hits)
	readInt(g("rotate"), &p.Rotate)

	return p, p.validate()
}

func (p *Patch) validate() error {
	if _, ok := StandardTables()[p.Waveform]; !ok {
		return fmt.Errorf("patch: unknown waveform %q", p.Waveform)
	}
	if _, ok := arpDirections[p.Direction]; !ok {
		return fmt.Errorf("patch: unknown direction %q", p.Direction)
	}
	switch p.Filter {
	case "ladder", "svf", "svf2":
	default:
		return fmt.Errorf("patch: unknown filter %q", p.Filter)
	}
	switch p.Reverb {
	case "verb", "hall":
	default:
		return fmt.Errorf("patch: unknown reverb %q", p.Reverb)
	}
	if p.BPM <= 0 || p.Division <= 0 {
		return fmt.Errorf("patch: tempo %.1f BPM, %.1f steps per beat", p.BPM, p.Division)
	}
	return nil
}

func readNumber(v lua.LValue, dst *float64) {
	if n, ok := v.(lua.LNumber); ok {
		*dst = float64(n)
	}
}

func readInt(v lua.LValue, dst *int) {
	if n, ok := v.(lua.LNumber); ok {
		*dst = int(n)
	}
}

func readString(v lua.LValue, dst *string) {
	if s, ok := v.(lua.LString); ok {
		*dst = string(s)
	}
}

func readEnv(v lua.LValue, dst *EnvSettings) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return
	}
	readNumber(t.RawGetString("attack"), &dst.Attack)
	readNumber(t.RawGetString("hold"), &dst.Hold)
	readNumber(t.RawGetString("decay"), &dst.Decay)
	readNumber(t.RawGetString("sustain"), &dst.Sustain)
	readNumber(t.RawGetString("release"), &dst.Release)
}

func luaMtof(L *lua.LState) int {
	L.Push(lua.LNumber(m32.Mtof(float64(L.CheckNumber(1)))))
	return 1
}

// luaEuclid returns a Lua array of 0/1 steps.
func luaEuclid(L *lua.LState) int {
	steps := L.CheckInt(1)
	hits := L.CheckInt(2)
	rotate := L.OptInt(3, 0)
	seq := m32.NewSeq(steps)
	seq.GenerateEuclidean(hits, rotate)
	t := L.NewTable()
	for _, v := range seq.Values() {
		t.Append(lua.LNumber(v))
	}
	L.Push(t)
	return 1
}
