// samp.go - Variable speed sample player with looping and a grain window

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

import "math"

// Samp plays a borrowed mono or interleaved stereo buffer. The playback
// phase is 32.32 (frame index in the upper word).
type Samp struct {
	buf      []int16
	frames   int
	channels int
	srcRate  int
	rate     Rate

	phase uint64 // 32.32 frame position
	start uint64 // Segment start, 32.32
	end   uint64 // Segment end (exclusive), 32.32
	inc   Fix16  // Frames per output frame
	speed float64

	loop    bool
	playing bool

	windowed bool
	window   *Window
	winPhase uint32 // 16.16 window index
	winInc   uint32
}

// NewSamp returns an empty player for the given output rate.
func NewSamp(rate Rate) *Samp {
	return &Samp{rate: rate, channels: 1, srcRate: int(rate), speed: 1}
}

// SetBuffer hands over sample data: frames frames of channels interleaved
// samples recorded at sourceRate. The loop segment resets to the whole
// buffer and playback stops. Invalid layouts are ignored.
func (s *Samp) SetBuffer(buf []int16, frames, channels, sourceRate int) {
	if channels < 1 || channels > 2 || frames <= 0 || sourceRate <= 0 || len(buf) < frames*channels {
		logf("samp: rejected buffer (%d frames, %d channels, %d samples)", frames, channels, len(buf))
		return
	}
	s.buf = buf
	s.frames = frames
	s.channels = channels
	s.srcRate = sourceRate
	s.playing = false
	s.start = 0
	s.end = uint64(frames) << 32
	s.SetSpeed(s.speed)
}

func (s *Samp) Frames() int     { return s.frames }
func (s *Samp) Channels() int   { return s.channels }
func (s *Samp) SourceRate() int { return s.srcRate }

// SetSpeed sets the playback speed; 1 plays at the recorded pitch.
// Non-positive speeds are ignored.
func (s *Samp) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	s.speed = speed
	s.inc = Fix16FromFloat(float64(s.srcRate) * speed / s.rate.Hz())
	s.calcWindowInc()
}

func (s *Samp) Speed() float64 { return s.speed }

// SetLoopPoints sets the playback segment in frames, clamped to the buffer.
func (s *Samp) SetLoopPoints(startFrame, endFrame int) {
	if s.frames == 0 {
		return
	}
	startFrame = clampInt(startFrame, 0, s.frames-1)
	endFrame = clampInt(endFrame, startFrame+1, s.frames)
	s.start = uint64(startFrame) << 32
	s.end = uint64(endFrame) << 32
	if s.phase < s.start || s.phase >= s.end {
		s.phase = s.start
	}
	s.calcWindowInc()
}

// SetLoopMs sets the playback segment in milliseconds of source time.
func (s *Samp) SetLoopMs(startMs, endMs float64) {
	toFrames := func(ms float64) int { return int(math.Round(ms * float64(s.srcRate) / 1000)) }
	s.SetLoopPoints(toFrames(startMs), toFrames(endMs))
}

func (s *Samp) SetLoop(loop bool) { s.loop = loop }

// SetWindowed multiplies the shared grain window into the output.
func (s *Samp) SetWindowed(on bool) { s.windowed = on }

// Start plays the segment from its beginning.
func (s *Samp) Start() {
	if s.frames == 0 {
		return
	}
	s.phase = s.start
	s.winPhase = 0
	s.window = SharedWindow()
	s.playing = true
}

// Stop halts playback. Calling it on a stopped player does nothing.
func (s *Samp) Stop() { s.playing = false }

func (s *Samp) IsPlaying() bool { return s.playing }

// Next returns the next mono sample (stereo buffers are averaged) and
// advances one frame.
func (s *Samp) Next() int16 {
	if !s.playing {
		return 0
	}
	i := int(s.phase>>32) * s.channels
	v := int32(s.buf[i])
	if s.channels == 2 {
		v = (v + int32(s.buf[i+1])) >> 1
	}
	v = s.applyWindow(v)
	s.advance()
	return Clip16(v)
}

// NextLeft reads the left channel of the current frame without advancing.
func (s *Samp) NextLeft() int16 {
	if !s.playing {
		return 0
	}
	i := int(s.phase>>32) * s.channels
	return Clip16(s.applyWindow(int32(s.buf[i])))
}

// NextRight reads the right channel of the current frame and advances.
// Mono buffers return the same sample on both sides.
func (s *Samp) NextRight() int16 {
	if !s.playing {
		return 0
	}
	i := int(s.phase>>32)*s.channels + s.channels - 1
	v := s.applyWindow(int32(s.buf[i]))
	s.advance()
	return Clip16(v)
}

func (s *Samp) applyWindow(v int32) int32 {
	if !s.windowed || s.window == nil {
		return v
	}
	idx := min(int(s.winPhase>>16), WINDOW_SIZE-1)
	return (v * int32(s.window[idx])) >> 8
}

func (s *Samp) advance() {
	s.phase += uint64(s.inc) << 16
	s.winPhase += s.winInc
	if s.phase < s.end {
		return
	}
	if !s.loop {
		s.playing = false
		return
	}
	seg := s.end - s.start
	s.phase = s.start + (s.phase-s.end)%seg
	s.winPhase = 0
}

// calcWindowInc spans the window over exactly one segment at the
// current speed.
func (s *Samp) calcWindowInc() {
	segFrames := (s.end - s.start) >> 32
	if segFrames == 0 {
		s.winInc = 0
		return
	}
	s.winInc = uint32(uint64(WINDOW_SIZE) * uint64(s.inc) / segFrames)
}

// DeriveBPM picks the tempo for this buffer as a loop, see DeriveBPM.
func (s *Samp) DeriveBPM(target, minBPM, maxBPM float64) (float64, bool) {
	return DeriveBPM(s.frames, s.srcRate, target, minBPM, maxBPM)
}

// DeriveBPM treats frames as 2^k beats for k in 0..16 and returns the
// implied tempo inside [minBPM, maxBPM] closest to target.
func DeriveBPM(frames, sampleRate int, target, minBPM, maxBPM float64) (float64, bool) {
	if frames <= 0 || sampleRate <= 0 {
		return 0, false
	}
	best, found := 0.0, false
	for k := 0; k <= 16; k++ {
		bpm := float64(uint64(1)<<k) * float64(sampleRate) * 60 / float64(frames)
		if bpm < minBPM || bpm > maxBPM {
			continue
		}
		if !found || math.Abs(bpm-target) < math.Abs(best-target) {
			best, found = bpm, true
		}
	}
	return best, found
}
