package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/intuitionamiga/m32"
	"github.com/intuitionamiga/m32/internal/demo"
	"github.com/intuitionamiga/m32/wav"
)

func main() {
	outFile := flag.String("o", "m32.wav", "Output WAV file")
	seconds := flag.Float64("seconds", 10, "Length to render")
	rate := flag.Int("rate", int(m32.Rate44100), "Sample rate in Hz")
	patchFile := flag.String("patch", "", "Lua patch script")
	kickFile := flag.String("kick", "", "WAV file replacing the drum sample")
	syncFile := flag.String("tempo-from", "", "WAV file whose last channel carries a sync pulse to take the tempo from")
	ppqn := flag.Int("ppqn", 4, "Sync pulses per quarter note for -tempo-from")
	syncOut := flag.Bool("syncout", false, "Write a sync pulse on the right channel")
	verbose := flag.Bool("v", false, "Log diagnostics to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: m32render [options]\n\nRenders the m32 demo synth to a 16-bit stereo WAV file.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  m32render -seconds 30 -patch patches/acid.lua -o acid.wav\n")
		fmt.Fprintf(os.Stderr, "  m32render -tempo-from drums.wav -ppqn 2 -o synced.wav\n")
	}
	flag.Parse()

	if *verbose {
		m32.SetLogOutput(os.Stderr)
	}
	if *seconds <= 0 || *rate <= 0 {
		fmt.Fprintf(os.Stderr, "error: -seconds and -rate must be positive\n")
		os.Exit(1)
	}

	patch := demo.DefaultPatch()
	if *patchFile != "" {
		p, err := demo.LoadPatchFile(*patchFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		patch = p
	}
	synth := demo.NewSynth(m32.Rate(*rate))
	synth.Apply(patch)
	synth.SetSyncOut(*syncOut)

	if *kickFile != "" {
		clip, err := wav.LoadFile(*kickFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		synth.SetKick(clip.Samples, clip.Frames, clip.Channels, clip.SampleRate)
	}
	if *syncFile != "" {
		clip, err := wav.LoadFile(*syncFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		bpm, ok := SyncTempo(clip, *ppqn)
		if !ok {
			fmt.Fprintf(os.Stderr, "error: no sync pulses in %s\n", *syncFile)
			os.Exit(1)
		}
		fmt.Printf("Tempo:  %.1f BPM from %s\n", bpm, *syncFile)
		synth.SetTempo(bpm)
	}

	start := time.Now()
	buf := RenderSeconds(synth, m32.Rate(*rate), *seconds)
	if err := wav.WriteFile(*outFile, *rate, 2, buf); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", *outFile, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	fmt.Printf("Output: %s (%.1fs at %d Hz)\n", *outFile, *seconds, *rate)
	fmt.Printf("Speed:  %.1fx real time\n", *seconds/elapsed.Seconds())
}
