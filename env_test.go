// env_test.go - Envelope tests

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
	"testing"
)

func within(got, want int16, frac float64) bool {
	return math.Abs(float64(got)-float64(want)) <= math.Abs(float64(want))*frac
}

func TestEnvADHSRShape(t *testing.T) {
	clock := &ManualClock{}
	env := NewEnv(clock)
	env.Set(10, 0, 40, 0.25, 50)
	env.SetMaxLevel(MAX_ENV_LEVEL)
	env.Start()

	steps := []struct {
		at      uint64
		release bool
		want    int16
		state   EnvState
	}{
		{5, false, 16383, ENV_ATTACK},
		{30, false, 20479, ENV_DECAY}, // 0.625 of full scale
		{60, false, 8191, ENV_SUSTAIN},
		{60, true, 8191, ENV_RELEASE},
		{110, false, 0, ENV_COMPLETE},
		{200, false, 0, ENV_COMPLETE},
	}
	for _, s := range steps {
		clock.Set(s.at)
		if s.release {
			env.StartRelease()
		}
		got := env.Next()
		t.Logf("t=%3d ms: %5d (%s)", s.at, got, env.State())
		if !within(got, s.want, 0.01) && got != s.want {
			t.Errorf("t=%d: value %d, want %d", s.at, got, s.want)
		}
		if env.State() != s.state {
			t.Errorf("t=%d: state %s, want %s", s.at, env.State(), s.state)
		}
	}
}

func TestEnvSustainAndRelease(t *testing.T) {
	clock := &ManualClock{}
	env := NewEnv(clock)
	env.Set(100, 0, 100, 0.5, 200)
	env.Start()

	clock.Set(50)
	if v := env.Next(); !within(v, 16383, 0.1) {
		t.Errorf("mid attack = %d, want about 16383", v)
	}
	clock.Set(200)
	if v := env.Next(); !within(v, 16383, 0.1) {
		t.Errorf("sustain = %d, want about 16383", v)
	}
	env.StartRelease()
	clock.Set(300)
	if v := env.Next(); v <= 0 || v >= 16383/8 {
		t.Errorf("half release = %d, want the quartic tail", v)
	}
	clock.Set(400)
	if v := env.Next(); v != 0 {
		t.Errorf("after release = %d, want 0", v)
	}
	if env.IsBusy() {
		t.Error("envelope still busy after release")
	}
}

func TestEnvStartReleaseIdempotent(t *testing.T) {
	clock := &ManualClock{}
	env := NewEnv(clock)
	env.Set(10, 0, 10, 0.5, 100)

	env.StartRelease()
	if env.State() != ENV_COMPLETE {
		t.Fatalf("release from idle moved to %s", env.State())
	}

	env.Start()
	clock.Set(50)
	env.StartRelease()
	clock.Set(75)
	first := env.Next()
	env.StartRelease()
	if got := env.Next(); got != first {
		t.Errorf("second StartRelease restarted the release: %d then %d", first, got)
	}
}

func TestEnvRetriggerFromCurrentLevel(t *testing.T) {
	clock := &ManualClock{}
	env := NewEnv(clock)
	env.Set(100, 0, 100, 1, 1000)
	env.Start()
	clock.Set(200)
	env.Next()
	env.StartRelease()
	clock.Set(300)
	level := env.Next()

	env.Start()
	if got := env.Next(); got != level {
		t.Errorf("retrigger jumped from %d to %d", level, got)
	}
	clock.Set(400)
	if got := env.Next(); got != MAX_ENV_LEVEL {
		t.Errorf("retriggered attack peaked at %d", got)
	}
}

func TestEnvClockJump(t *testing.T) {
	clock := &ManualClock{}
	env := NewEnv(clock)
	env.Set(5, 5, 5, 0.5, 5)
	env.Start()
	clock.Set(1000)
	if got := env.Next(); got != int16(env.SustainLevel()) {
		t.Errorf("after a long jump = %d, want sustain %d", got, env.SustainLevel())
	}
	if got := env.Apply(20000); got != int16((20000*int32(env.SustainLevel()))>>15) {
		t.Errorf("Apply = %d", got)
	}
}
