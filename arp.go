// arp.go - Arpeggiator over held notes

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

import "slices"

const (
	ARP_MAX_NOTES = 12
	ARP_MAX_RANGE = 8
)

// ArpDirection selects the order notes are played in.
type ArpDirection int

const (
	ARP_ORDER ArpDirection = iota // As added
	ARP_UP
	ARP_UP_DOWN
	ARP_DOWN
	ARP_RANDOM
)

// Arp steps through up to ARP_MAX_NOTES values across range octaves.
type Arp struct {
	order  []int // Insertion order
	sorted []int

	dir     ArpDirection
	octaves int
	index   int
	octave  int
	rising  bool // UP_DOWN heading up
	rng     *Rand
}

func NewArp() *Arp {
	return &Arp{
		order:   make([]int, 0, ARP_MAX_NOTES),
		sorted:  make([]int, 0, ARP_MAX_NOTES),
		octaves: 1,
		rising:  true,
		rng:     DefaultRand,
	}
}

func (a *Arp) SetRand(r *Rand) {
	if r != nil {
		a.rng = r
	}
}

// SetValues replaces the held notes. Extra values beyond ARP_MAX_NOTES are
// dropped.
func (a *Arp) SetValues(vals []int) {
	a.order = append(a.order[:0], vals[:min(len(vals), ARP_MAX_NOTES)]...)
	a.resort()
	a.Reset()
}

// AddNote appends v unless it is already held or the arp is full.
func (a *Arp) AddNote(v int) {
	if len(a.order) >= ARP_MAX_NOTES || slices.Contains(a.order, v) {
		return
	}
	a.order = append(a.order, v)
	a.resort()
	a.fixIndex()
}

// RemoveNote drops v if held.
func (a *Arp) RemoveNote(v int) {
	i := slices.Index(a.order, v)
	if i < 0 {
		return
	}
	a.order = slices.Delete(a.order, i, i+1)
	a.resort()
	a.fixIndex()
}

func (a *Arp) Clear() {
	a.order = a.order[:0]
	a.sorted = a.sorted[:0]
	a.Reset()
}

func (a *Arp) Size() int { return len(a.order) }

// Contains reports whether v is held.
func (a *Arp) Contains(v int) bool { return slices.Contains(a.order, v) }

func (a *Arp) SetDirection(d ArpDirection) {
	if d < ARP_ORDER || d > ARP_RANDOM {
		return
	}
	a.dir = d
	a.Reset()
}

func (a *Arp) Direction() ArpDirection { return a.dir }

// SetRange sets how many octaves to span, 1..ARP_MAX_RANGE.
func (a *Arp) SetRange(octaves int) {
	a.octaves = clampInt(octaves, 1, ARP_MAX_RANGE)
	if a.octave >= a.octaves {
		a.octave = 0
	}
}

func (a *Arp) Range() int { return a.octaves }

// Reset returns to the first note of the pattern.
func (a *Arp) Reset() {
	a.index, a.octave, a.rising = 0, 0, true
	if a.dir == ARP_DOWN {
		a.index = max(len(a.sorted)-1, 0)
		a.octave = a.octaves - 1
	}
}

func (a *Arp) resort() {
	a.sorted = append(a.sorted[:0], a.order...)
	slices.Sort(a.sorted)
}

func (a *Arp) fixIndex() {
	if a.index >= len(a.order) {
		a.index = max(len(a.order)-1, 0)
	}
}

// Next returns the current note plus its octave offset and advances.
// An empty arp returns 0.
func (a *Arp) Next() int {
	n := len(a.order)
	if n == 0 {
		return 0
	}
	switch a.dir {
	case ARP_RANDOM:
		return a.sorted[a.rng.Intn(int32(n))] + int(a.rng.Intn(int32(a.octaves)))*12
	case ARP_ORDER:
		v := a.order[a.index] + a.octave*12
		a.stepUp(n)
		return v
	case ARP_UP:
		v := a.sorted[a.index] + a.octave*12
		a.stepUp(n)
		return v
	case ARP_DOWN:
		v := a.sorted[a.index] + a.octave*12
		a.stepDown(n)
		return v
	default:
		v := a.sorted[a.index] + a.octave*12
		a.stepUpDown(n)
		return v
	}
}

func (a *Arp) stepUp(n int) {
	a.index++
	if a.index >= n {
		a.index = 0
		a.octave = (a.octave + 1) % a.octaves
	}
}

func (a *Arp) stepDown(n int) {
	a.index--
	if a.index < 0 {
		a.index = n - 1
		a.octave--
		if a.octave < 0 {
			a.octave = a.octaves - 1
		}
	}
}

// stepUpDown ping-pongs across all octaves without repeating the top or
// bottom note.
func (a *Arp) stepUpDown(n int) {
	if a.rising {
		a.index++
		if a.index < n {
			return
		}
		if a.octave < a.octaves-1 {
			a.octave++
			a.index = 0
			return
		}
		a.rising = false
		a.index = max(n-2, 0)
		if n == 1 && a.octaves > 1 {
			a.octave--
		}
		return
	}
	a.index--
	if a.index >= 0 {
		return
	}
	if a.octave > 0 {
		a.octave--
		a.index = n - 1
		return
	}
	a.rising = true
	a.index = min(1, n-1)
	if n == 1 && a.octaves > 1 {
		a.octave++
	}
}
