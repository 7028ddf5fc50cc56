package controller

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Init string encoding.
const (
	DelayBit     = 0x80 // set in the count byte when a delay byte follows
	MaxDataCount = 0x7f // data bytes per command

	longDelayCode = 255
	longDelay     = 500 * time.Millisecond
)

// ErrMalformed is returned when an init string can not be parsed.
var ErrMalformed = errors.New("controller: malformed init string")

// Controller is a read-only description of a display controller.
type Controller struct {
	// Name of the controller.
	Name string

	// Some controllers need slightly different CASET and RASET parameters.
	ColumnStartAdjust int16
	ColumnEndAdjust   int16
	RowStartAdjust    int16
	RowEndAdjust      int16

	// InitString brings the controller up from reset.
	InitString []byte
}

func (c *Controller) String() string {
	return c.Name
}

// Execute replays the controller's init string against ops.
func (c *Controller) Execute(ops InitOps) error {
	if err := Execute(c.InitString, ops); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	return nil
}

// InitOps receives the primitives decoded from an init string.
type InitOps interface {
	// WriteCommand sends a command byte.
	WriteCommand(cmd byte) error

	// WriteData sends the command's data bytes.
	WriteData(data []byte) error

	// Delay waits before the next command.
	Delay(time.Duration)

	// Error is called once before Execute returns ErrMalformed.
	Error(err error)
}

// Command is one decoded init string entry.
type Command struct {
	Cmd      byte
	Data     []byte
	HasDelay bool
	Delay    time.Duration
}

// Execute parses the init string and calls back to ops for every command.
//
// The whole string is validated before the first command is sent: a short
// read or trailing bytes calls ops.Error and returns ErrMalformed without
// touching the bus. Errors returned by ops are passed through.
func Execute(initString []byte, ops InitOps) error {
	commands, err := Decode(initString)
	if err != nil {
		ops.Error(err)
		return err
	}
	for _, command := range commands {
		if err = ops.WriteCommand(command.Cmd); err != nil {
			return err
		}
		if len(command.Data) > 0 {
			if err = ops.WriteData(command.Data); err != nil {
				return err
			}
		}
		if command.HasDelay {
			ops.Delay(command.Delay)
		}
	}
	return nil
}

// Decode parses an init string. Data slices alias initString.
func Decode(initString []byte) ([]Command, error) {
	var (
		cursor int
		end    = len(initString)
	)
	next := func() (byte, bool) {
		if cursor >= end {
			return 0, false
		}
		b := initString[cursor]
		cursor++
		return b, true
	}

	count, ok := next()
	if !ok {
		return nil, fmt.Errorf("%w: missing command count", ErrMalformed)
	}
	commands := make([]Command, 0, count)
	for i := 1; i <= int(count); i++ {
		var command Command
		if command.Cmd, ok = next(); !ok {
			return nil, fmt.Errorf("%w: command %d of %d: missing command byte at offset %d", ErrMalformed, i, count, cursor)
		}
		flags, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: command %d of %d (%#02x): missing count byte at offset %d", ErrMalformed, i, count, command.Cmd, cursor)
		}
		dataCount := int(flags & MaxDataCount)
		if cursor+dataCount > end {
			return nil, fmt.Errorf("%w: command %d of %d (%#02x): %d data bytes at offset %d overrun %d byte string", ErrMalformed, i, count, command.Cmd, dataCount, cursor, end)
		}
		if dataCount > 0 {
			command.Data = initString[cursor : cursor+dataCount : cursor+dataCount]
			cursor += dataCount
		}
		if command.HasDelay = flags&DelayBit != 0; command.HasDelay {
			code, ok := next()
			if !ok {
				return nil, fmt.Errorf("%w: command %d of %d (%#02x): missing delay byte at offset %d", ErrMalformed, i, count, command.Cmd, cursor)
			}
			command.Delay = decodeDelay(code)
		}
		commands = append(commands, command)
	}
	if cursor != end {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d commands", ErrMalformed, end-cursor, count)
	}
	return commands, nil
}

func decodeDelay(code byte) time.Duration {
	if code == longDelayCode {
		return longDelay
	}
	return time.Duration(code) * time.Millisecond
}

var known = map[string]*Controller{}

func register(c *Controller) *Controller {
	known[strings.ToLower(c.Name)] = c
	return c
}

// ByName looks up a known controller, ignoring case.
func ByName(name string) (*Controller, error) {
	if c, ok := known[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("controller: unknown controller %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names of the known controllers, sorted.
func Names() []string {
	names := make([]string, 0, len(known))
	for _, c := range known {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}
