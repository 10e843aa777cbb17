package main

import (
	"github.com/intuitionamiga/m32"
	"github.com/intuitionamiga/m32/midi"
	"github.com/intuitionamiga/m32/wav"
)

// RenderSeconds runs g for the given length and returns interleaved stereo.
func RenderSeconds(g m32.Graph, rate m32.Rate, seconds float64) []int16 {
	frames := int(seconds * rate.Hz())
	buf := make([]int16, 2*frames)
	m32.Render(g, buf)
	return buf
}

// SyncTempo reads an analogue sync pulse from the last channel of clip.
func SyncTempo(clip *wav.Clip, ppqn int) (float64, bool) {
	if clip.Frames == 0 || clip.SampleRate <= 0 {
		return 0, false
	}
	tracker := midi.NewPulseTracker(ppqn)
	ch := clip.Channels - 1
	for f := 0; f < clip.Frames; f++ {
		ms := uint64(f) * 1000 / uint64(clip.SampleRate)
		tracker.Sample(clip.Samples[f*clip.Channels+ch], ms)
	}
	bpm := tracker.BPM()
	return bpm, bpm > 0
}
