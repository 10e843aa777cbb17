//go:build portmidi

package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rakyll/portmidi"
)

const (
	PORTMIDI_BUFFER = 1024
	PORTMIDI_POLL   = 2 * time.Millisecond
)

func init() {
	midiDrivers["portmidi"] = runPortmidi
}

// runPortmidi polls the default input, or the device id given in arg, and
// feeds each event through the same parser as the raw reader.
func runPortmidi(ctx context.Context, m *MIDIInput, arg string) error {
	if err := portmidi.Initialize(); err != nil {
		return fmt.Errorf("portmidi: %w", err)
	}
	defer portmidi.Terminate()

	id := portmidi.DefaultInputDeviceID()
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("portmidi: device %q: %w", arg, err)
		}
		id = portmidi.DeviceID(n)
	}
	info := portmidi.Info(id)
	if info == nil || !info.IsInputAvailable {
		return fmt.Errorf("portmidi: device %d is not an input (%d devices)", id, portmidi.CountDevices())
	}
	in, err := portmidi.NewInputStream(id, PORTMIDI_BUFFER)
	if err != nil {
		return fmt.Errorf("portmidi: open %s: %w", info.Name, err)
	}
	defer in.Close()
	if m.log != nil {
		fmt.Fprintf(m.log, "portmidi: reading %s\r\n", info.Name)
	}

	ticker := time.NewTicker(PORTMIDI_POLL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		events, err := in.Read(PORTMIDI_BUFFER)
		if err != nil {
			return fmt.Errorf("portmidi: %w", err)
		}
		for _, ev := range events {
			m.FeedEvent(byte(ev.Status), byte(ev.Data1), byte(ev.Data2))
		}
	}
}
