// wav.go - WAV file loading and writing

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

// Package wav loads PCM WAV files into 16-bit sample buffers for m32.Samp
// and writes offline renders back out.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/intuitionamiga/m32"
)

const (
	WAVE_FORMAT_PCM = 1
	MAX_CHANNELS    = 2
)

var (
	ErrInvalid     = errors.New("wav: not a WAV file")
	ErrUnsupported = errors.New("wav: unsupported format")
)

// Clip is a decoded WAV file: interleaved 16-bit samples.
type Clip struct {
	Samples    []int16
	Frames     int
	Channels   int
	SampleRate int
	BitDepth   int // Of the source file
}

// Duration returns the clip length at its own sample rate.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.Frames) * time.Second / time.Duration(c.SampleRate)
}

// Attach hands the samples to s. The clip must outlive the player.
func (c *Clip) Attach(s *m32.Samp) {
	s.SetBuffer(c.Samples, c.Frames, c.Channels, c.SampleRate)
}

// LoadFile reads a WAV file from disk.
func LoadFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load decodes 8, 16 or 24-bit PCM, mono or stereo. 8-bit data is
// unsigned and recentred, 24-bit keeps its upper 16 bits.
func Load(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalid
	}
	if d.WavAudioFormat != WAVE_FORMAT_PCM {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupported, d.WavAudioFormat)
	}
	channels := int(d.NumChans)
	if channels < 1 || channels > MAX_CHANNELS {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}
	depth := int(d.BitDepth)
	var convert func(int) int16
	switch depth {
	case 8:
		convert = func(v int) int16 { return m32.Clip16(int32(v-128) << 8) }
	case 16:
		convert = func(v int) int16 { return m32.Clip16(int32(v)) }
	case 24:
		convert = func(v int) int16 { return m32.Clip16(int32(v) >> 8) }
	default:
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupported, depth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: decoding: %w", err)
	}
	frames := len(buf.Data) / channels
	if frames == 0 {
		return nil, fmt.Errorf("%w: no sample data", ErrInvalid)
	}
	c := &Clip{
		Samples:    make([]int16, frames*channels),
		Frames:     frames,
		Channels:   channels,
		SampleRate: int(d.SampleRate),
		BitDepth:   depth,
	}
	for i := range c.Samples {
		c.Samples[i] = convert(buf.Data[i])
	}
	return c, nil
}

// Write encodes interleaved 16-bit samples as a PCM WAV stream.
func Write(w io.WriteSeeker, rate, channels int, samples []int16) error {
	if channels < 1 || channels > MAX_CHANNELS {
		return fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}
	enc := wav.NewEncoder(w, rate, 16, channels, WAVE_FORMAT_PCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  rate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, v := range samples {
		buf.Data[i] = int(v)
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: encoding: %w", err)
	}
	return enc.Close()
}

// WriteFile writes samples to path, replacing any existing file.
func WriteFile(path string, rate, channels int, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, rate, channels, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
