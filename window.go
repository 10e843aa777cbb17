// window.go - Shared grain window for the sample player

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
	"sync/atomic"
)

const WINDOW_SIZE = 1024

// WindowShape selects the curve baked into a Window.
type WindowShape int

const (
	WINDOW_GAUSSIAN WindowShape = iota
	WINDOW_RAISED_COSINE
	WINDOW_LINEAR
)

// Window is a byte envelope, 0..255, spanning one playback segment.
type Window [WINDOW_SIZE]uint8

// NewWindow builds a window of the given shape.
func NewWindow(shape WindowShape) *Window {
	w := new(Window)
	for i := range w {
		x := float64(i) / (WINDOW_SIZE - 1) // 0..1 across the segment
		var v float64
		switch shape {
		case WINDOW_RAISED_COSINE:
			v = 0.5 - 0.5*math.Cos(TWO_PI*x)
		case WINDOW_LINEAR:
			v = 1 - math.Abs(2*x-1)
		default:
			// sigma 0.25 of the segment, centred
			d := (x - 0.5) / 0.25
			v = math.Exp(-0.5 * d * d)
		}
		w[i] = uint8(math.Round(clampFloat(v, 0, 1) * 255))
	}
	return w
}

var sharedWindow atomic.Pointer[Window]

func init() {
	sharedWindow.Store(NewWindow(WINDOW_GAUSSIAN))
}

// SetWindowShape rebuilds the process-wide window. Players pick the new
// table up on their next Start.
func SetWindowShape(shape WindowShape) {
	sharedWindow.Store(NewWindow(shape))
}

// SharedWindow returns the process-wide window.
func SharedWindow() *Window { return sharedWindow.Load() }
