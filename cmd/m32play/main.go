package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/intuitionamiga/m32"
	"github.com/intuitionamiga/m32/internal/demo"
	"github.com/intuitionamiga/m32/wav"
)

type options struct {
	backend string
	rate    int
	patch   string
	kick    string
	midi    string
	channel int
	syncOut bool
	verbose bool
}

func main() {
	fs := flag.NewFlagSet("m32play", flag.ExitOnError)
	var opt options
	fs.StringVar(&opt.backend, "backend", defaultBackend, "Audio backend ("+backendNames()+")")
	fs.IntVar(&opt.rate, "rate", int(m32.Rate48000), "Sample rate in Hz")
	fs.StringVar(&opt.patch, "patch", "", "Lua patch script")
	fs.StringVar(&opt.kick, "kick", "", "WAV file replacing the drum sample")
	fs.StringVar(&opt.midi, "midi", "", "MIDI input: a raw device such as /dev/snd/midiC1D0, or portmidi[:id] in portmidi builds")
	fs.IntVar(&opt.channel, "channel", 0, "MIDI channel 1-16, 0 for all")
	fs.BoolVar(&opt.syncOut, "syncout", false, "Send a sync pulse on the right channel")
	fs.BoolVar(&opt.verbose, "v", false, "Log diagnostics to stderr")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: m32play [options]\n\nPlays the m32 demo synth. Keys a-l play notes, z/x shift octave,\n1 toggles the arpeggiator, 2 the sync pulse, [ ] change tempo,\n, . move the cutoff, space silences, q quits.\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  m32play -patch patches/acid.lua\n")
		fmt.Fprintf(os.Stderr, "  m32play -backend ebiten -midi /dev/snd/midiC1D0 -channel 1\n")
		fmt.Fprintf(os.Stderr, "  m32play -midi portmidi:3   (built with -tags portmidi)\n")
	}
	fs.Parse(os.Args[1:])

	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "m32play: %v\n", err)
		os.Exit(1)
	}
}

func run(opt options) error {
	if opt.verbose {
		m32.SetLogOutput(os.Stderr)
	}
	if opt.channel < 0 || opt.channel > 16 {
		return fmt.Errorf("-channel must be 0-16")
	}

	patch := demo.DefaultPatch()
	if opt.patch != "" {
		p, err := demo.LoadPatchFile(opt.patch)
		if err != nil {
			return err
		}
		patch = p
	}
	synth := demo.NewSynth(m32.Rate(opt.rate))
	synth.Apply(patch)
	synth.SetSyncOut(opt.syncOut)
	if opt.kick != "" {
		clip, err := wav.LoadFile(opt.kick)
		if err != nil {
			return err
		}
		synth.SetKick(clip.Samples, clip.Frames, clip.Channels, clip.SampleRate)
	}

	backend, err := openBackend(opt.backend, opt.rate)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return backend.Play(ctx, synth) })

	kb := NewKeyboard(synth, patch, os.Stdout)
	g.Go(func() error { return kb.Run(ctx) })

	if opt.midi != "" {
		in := NewMIDIInput(synth, m32.NewSystemClock(), opt.channel-1)
		if opt.verbose {
			in.log = os.Stderr
		}
		g.Go(func() error { return in.Open(ctx, opt.midi) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
