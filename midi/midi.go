// midi.go - MIDI byte stream parser

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

// Package midi turns a serial MIDI byte stream into channel and real-time
// messages and derives tempo from MIDI clock or an analogue sync pulse.
package midi

import "fmt"

// Channel voice status nibbles
const (
	NOTE_OFF         = 0x80
	NOTE_ON          = 0x90
	POLY_PRESSURE    = 0xA0
	CONTROL_CHANGE   = 0xB0
	PROGRAM_CHANGE   = 0xC0
	CHANNEL_PRESSURE = 0xD0
	PITCH_BEND       = 0xE0
)

// System common and real-time bytes
const (
	SYSEX_START   = 0xF0
	TIME_CODE     = 0xF1
	SONG_POSITION = 0xF2
	SONG_SELECT   = 0xF3
	TUNE_REQUEST  = 0xF6
	SYSEX_END     = 0xF7
	CLOCK         = 0xF8
	START         = 0xFA
	CONTINUE      = 0xFB
	STOP          = 0xFC
	ACTIVE_SENSE  = 0xFE
	SYSTEM_RESET  = 0xFF

	REALTIME_MIN = CLOCK
)

// Message is one complete MIDI message. For channel messages Status holds
// the high nibble and Channel the low one; system messages carry the whole
// status byte and channel 0.
type Message struct {
	Status  byte
	Channel byte
	Data1   byte
	Data2   byte
}

// IsRealtime reports whether m is a single byte real-time message.
func (m Message) IsRealtime() bool { return m.Status >= REALTIME_MIN }

func (m Message) Note() int     { return int(m.Data1) }
func (m Message) Velocity() int { return int(m.Data2) }

// Bend returns a pitch bend value centred on 0, -8192..8191.
func (m Message) Bend() int {
	return (int(m.Data2)<<7 | int(m.Data1)) - 8192
}

func (m Message) String() string {
	switch m.Status {
	case NOTE_ON:
		return fmt.Sprintf("note on ch%d %d vel %d", m.Channel+1, m.Data1, m.Data2)
	case NOTE_OFF:
		return fmt.Sprintf("note off ch%d %d vel %d", m.Channel+1, m.Data1, m.Data2)
	case CONTROL_CHANGE:
		return fmt.Sprintf("cc ch%d %d = %d", m.Channel+1, m.Data1, m.Data2)
	case CLOCK:
		return "clock"
	case START:
		return "start"
	case CONTINUE:
		return "continue"
	case STOP:
		return "stop"
	}
	return fmt.Sprintf("status %02X ch%d %02X %02X", m.Status, m.Channel+1, m.Data1, m.Data2)
}

// DataLength is the number of data bytes that follow status.
func DataLength(status byte) int {
	switch status & 0xF0 {
	case PROGRAM_CHANGE, CHANNEL_PRESSURE:
		return 1
	case 0xF0:
		switch status {
		case TIME_CODE, SONG_SELECT:
			return 1
		case SONG_POSITION:
			return 2
		}
		return 0
	}
	return 2
}

// Parser assembles messages one byte at a time. Running status is honoured
// for channel messages; real-time bytes may arrive between any two bytes
// and do not disturb a message in progress.
type Parser struct {
	status byte
	data   [2]byte
	count  int
	need   int
	sysex  bool
}

// Feed consumes b and returns a message when one is complete.
func (p *Parser) Feed(b byte) (Message, bool) {
	if b >= REALTIME_MIN {
		return Message{Status: b}, true
	}

	if b&0x80 != 0 {
		p.count = 0
		switch {
		case b == SYSEX_START:
			p.sysex = true
			p.status = 0
			return Message{}, false
		case b == SYSEX_END:
			p.sysex = false
			p.status = 0
			return Message{}, false
		case b == TUNE_REQUEST:
			p.sysex = false
			p.status = 0
			return Message{Status: b}, true
		}
		p.sysex = false
		p.status = b
		p.need = DataLength(b)
		return Message{}, false
	}

	// Data byte
	if p.sysex || p.status == 0 {
		return Message{}, false
	}
	p.data[p.count] = b
	p.count++
	if p.count < p.need {
		return Message{}, false
	}
	p.count = 0

	m := Message{Data1: p.data[0]}
	if p.need == 2 {
		m.Data2 = p.data[1]
	}
	if p.status >= 0xF0 {
		m.Status = p.status
		p.status = 0 // System common cancels running status
		return m, true
	}
	m.Status = p.status & 0xF0
	m.Channel = p.status & 0x0F
	if m.Status == NOTE_ON && m.Data2 == 0 {
		m.Status = NOTE_OFF
	}
	return m, true
}

// Reset drops any partial message and the running status.
func (p *Parser) Reset() {
	*p = Parser{}
}
