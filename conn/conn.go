// Package conn is the serial link to a display controller.
//
// A [Bus] offers two complementary send paths: synchronous small writes for
// controller bring-up and address window selection, and an asynchronous
// queue for large pixel payloads whose completions are drained in
// submission order.
package conn

import (
	"errors"
	"fmt"
	"time"
)

// Errors
var (
	ErrTimeout = errors.New("conn: bus operation timed out")
	ErrClosed  = errors.New("conn: bus is closed")
	ErrDCPin   = errors.New("conn: data/command (DC) GPIO pin is invalid")
)

// Defaults for the asynchronous queue.
const (
	DefaultQueueSize       = 7
	DefaultMaxTransferSize = 4092 // largest single DMA descriptor chain the reference SPI host moves
	DefaultTimeout         = time.Second
)

// Transfer is one asynchronous write. The bus owns Data from Enqueue until
// the Transfer is returned by Await.
type Transfer struct {
	// Data to write.
	Data []byte

	// Err is set by the bus when the transfer failed.
	Err error
}

// Bits is the transfer length in bits.
func (t *Transfer) Bits() int {
	return len(t.Data) * 8
}

// Bus is the serial link to one display controller.
type Bus interface {
	String() string

	// Close the bus, releasing the device and every claimed GPIO line.
	Close() error

	// WriteCommand sends a command byte and waits until it is on the wire.
	WriteCommand(cmd byte) error

	// WriteData sends data bytes and waits until they are on the wire.
	WriteData(data []byte) error

	// StartWrite selects the address window [x0, x1] × [y0, y1] and issues
	// the memory write command, leaving the bus in data mode.
	StartWrite(x0, y0, x1, y1 int) error

	// Enqueue queues an asynchronous write, waiting a bounded time for room
	// in the queue. Transfers longer than MaxTransferSize are a programming
	// error and panic.
	Enqueue(*Transfer) error

	// Await waits a bounded time for the oldest queued transfer to complete.
	Await() (*Transfer, error)

	// MaxTransferSize is the largest Transfer in bytes.
	MaxTransferSize() int
}

// CheckTransfer panics when t is too large for a bus moving at most max bytes at once.
func CheckTransfer(t *Transfer, max int) {
	if len(t.Data) > max {
		panic(fmt.Sprintf("conn: transfer of %d bytes exceeds the %d byte bus limit", len(t.Data), max))
	}
}

// Address encodes a start and end address as the 4 data bytes of CASET and RASET.
func Address(start, end uint16) []byte {
	return []byte{byte(start >> 8), byte(start), byte(end >> 8), byte(end)}
}
