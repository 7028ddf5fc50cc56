package controller

import (
	"fmt"
	"time"
)

// InitString builds an init string one command at a time.
//
//	s := controller.NewInitString().
//		Command(SWRESET).Delay(150 * time.Millisecond).
//		Command(COLMOD, 0x55)
//	blob, err := s.Bytes()
type InitString struct {
	commands []Command
	err      error
}

// NewInitString starts an empty init string.
func NewInitString() *InitString {
	return new(InitString)
}

// Command appends a command with its data bytes.
func (s *InitString) Command(cmd byte, data ...byte) *InitString {
	if s.err != nil {
		return s
	}
	if len(data) > MaxDataCount {
		s.err = fmt.Errorf("controller: command %#02x has %d data bytes, at most %d fit", cmd, len(data), MaxDataCount)
		return s
	}
	s.commands = append(s.commands, Command{Cmd: cmd, Data: append([]byte(nil), data...)})
	return s
}

// Delay sets the delay after the last command. Only 0-254 ms and 500 ms can be encoded.
func (s *InitString) Delay(d time.Duration) *InitString {
	if s.err != nil {
		return s
	}
	if len(s.commands) == 0 {
		s.err = fmt.Errorf("controller: delay %s before the first command", d)
		return s
	}
	last := &s.commands[len(s.commands)-1]
	if last.HasDelay {
		s.err = fmt.Errorf("controller: command %#02x already has a delay", last.Cmd)
		return s
	}
	if d != longDelay && (d < 0 || d >= longDelayCode*time.Millisecond || d%time.Millisecond != 0) {
		s.err = fmt.Errorf("controller: delay %s can not be encoded", d)
		return s
	}
	last.HasDelay, last.Delay = true, d
	return s
}

// Bytes encodes the init string.
func (s *InitString) Bytes() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.commands) > 0xff {
		return nil, fmt.Errorf("controller: %d commands, at most 255 fit", len(s.commands))
	}
	out := []byte{byte(len(s.commands))}
	for _, command := range s.commands {
		flags := byte(len(command.Data))
		if command.HasDelay {
			flags |= DelayBit
		}
		out = append(out, command.Cmd, flags)
		out = append(out, command.Data...)
		if command.HasDelay {
			out = append(out, encodeDelay(command.Delay))
		}
	}
	return out, nil
}

// MustBytes is like Bytes but panics on error. It is meant for package level descriptors.
func (s *InitString) MustBytes() []byte {
	b, err := s.Bytes()
	if err != nil {
		panic(err)
	}
	return b
}

func encodeDelay(d time.Duration) byte {
	if d == longDelay {
		return longDelayCode
	}
	return byte(d / time.Millisecond)
}
