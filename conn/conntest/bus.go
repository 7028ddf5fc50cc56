// Package conntest provides an in-memory conn.Bus for tests.
//
// The Bus records every synchronous write and address window and holds
// queued transfers until the test completes them, so tests can observe
// exactly what a display would have received and control when the
// hardware queue drains.
package conntest

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BeatGlow/hauntedmirror/conn"
)

// EventKind identifies a recorded bus event.
type EventKind uint8

// Recorded bus events.
const (
	CommandEvent EventKind = iota
	DataEvent
	WindowEvent
	EnqueueEvent
)

func (k EventKind) String() string {
	switch k {
	case CommandEvent:
		return "command"
	case DataEvent:
		return "data"
	case WindowEvent:
		return "window"
	case EnqueueEvent:
		return "enqueue"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Window is an address window selected with StartWrite.
type Window struct {
	X0, Y0, X1, Y1 int
}

// Event is one recorded bus interaction. Data of an EnqueueEvent is the
// queued slice, not a copy.
type Event struct {
	Kind     EventKind
	Command  byte
	Data     []byte
	Window   Window
	Transfer *conn.Transfer
}

// Bus is an in-memory conn.Bus.
type Bus struct {
	// AutoComplete completes transfers as soon as they are queued.
	AutoComplete bool

	mu        sync.Mutex
	maxTx     int
	timeout   time.Duration
	slots     chan struct{}
	released  chan *conn.Transfer
	pending   []*conn.Transfer
	events    []Event
	failNext  error
	waiting   atomic.Int32
	completed atomic.Int64
	closed    bool
}

// New returns a Bus with the given queue size; zero values select the conn defaults.
func New(queueSize, maxTransfer int) *Bus {
	if queueSize <= 0 {
		queueSize = conn.DefaultQueueSize
	}
	if maxTransfer <= 0 {
		maxTransfer = conn.DefaultMaxTransferSize
	}
	return &Bus{
		maxTx:    maxTransfer,
		timeout:  conn.DefaultTimeout,
		slots:    make(chan struct{}, queueSize),
		released: make(chan *conn.Transfer, queueSize),
	}
}

// SetTimeout changes how long Enqueue and Await wait.
func (b *Bus) SetTimeout(d time.Duration) {
	b.mu.Lock()
	b.timeout = d
	b.mu.Unlock()
}

func (b *Bus) String() string {
	return "test bus"
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return conn.ErrClosed
	}
	b.closed = true
	return nil
}

func (b *Bus) record(e Event) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}

func (b *Bus) WriteCommand(cmd byte) error {
	b.record(Event{Kind: CommandEvent, Command: cmd})
	return nil
}

func (b *Bus) WriteData(data []byte) error {
	b.record(Event{Kind: DataEvent, Data: append([]byte(nil), data...)})
	return nil
}

func (b *Bus) StartWrite(x0, y0, x1, y1 int) error {
	b.record(Event{Kind: WindowEvent, Window: Window{x0, y0, x1, y1}})
	return nil
}

func (b *Bus) Enqueue(t *conn.Transfer) error {
	conn.CheckTransfer(t, b.maxTx)

	b.mu.Lock()
	closed, timeout := b.closed, b.timeout
	b.mu.Unlock()
	if closed {
		return conn.ErrClosed
	}

	select {
	case b.slots <- struct{}{}:
	case <-time.After(timeout):
		return fmt.Errorf("%w: queueing %d byte transfer", conn.ErrTimeout, len(t.Data))
	}

	b.mu.Lock()
	b.events = append(b.events, Event{Kind: EnqueueEvent, Data: t.Data, Transfer: t})
	b.pending = append(b.pending, t)
	auto := b.AutoComplete
	b.mu.Unlock()

	if auto {
		b.Complete(1)
	}
	return nil
}

func (b *Bus) Await() (*conn.Transfer, error) {
	b.mu.Lock()
	closed, timeout := b.closed, b.timeout
	b.mu.Unlock()
	if closed {
		return nil, conn.ErrClosed
	}

	b.waiting.Add(1)
	defer b.waiting.Add(-1)

	var t *conn.Transfer
	select {
	case t = <-b.released:
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w: awaiting transfer", conn.ErrTimeout)
	}
	<-b.slots
	b.completed.Add(1)
	if t.Err != nil {
		return t, fmt.Errorf("conntest: transfer of %d bytes: %w", len(t.Data), t.Err)
	}
	return t, nil
}

func (b *Bus) MaxTransferSize() int {
	return b.maxTx
}

// Complete finishes up to n of the oldest queued transfers and returns how many it finished.
func (b *Bus) Complete(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n = min(n, len(b.pending))
	for _, t := range b.pending[:n] {
		if b.failNext != nil {
			t.Err, b.failNext = b.failNext, nil
		}
		b.released <- t
	}
	b.pending = b.pending[n:]
	return n
}

// CompleteAll finishes every queued transfer.
func (b *Bus) CompleteAll() int {
	return b.Complete(int(^uint(0) >> 1))
}

// FailNext makes the next completed transfer report err.
func (b *Bus) FailNext(err error) {
	b.mu.Lock()
	b.failNext = err
	b.mu.Unlock()
}

// Pending is the number of queued transfers not yet completed.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Waiting is the number of goroutines blocked in Await.
func (b *Bus) Waiting() int {
	return int(b.waiting.Load())
}

// Awaited is the number of transfers returned by Await.
func (b *Bus) Awaited() int {
	return int(b.completed.Load())
}

// Events returns every recorded event in order.
func (b *Bus) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}

// Windows returns the selected address windows in order.
func (b *Bus) Windows() []Window {
	var windows []Window
	for _, e := range b.Events() {
		if e.Kind == WindowEvent {
			windows = append(windows, e.Window)
		}
	}
	return windows
}

// Enqueued returns every queued transfer in submission order.
func (b *Bus) Enqueued() []*conn.Transfer {
	var transfers []*conn.Transfer
	for _, e := range b.Events() {
		if e.Kind == EnqueueEvent {
			transfers = append(transfers, e.Transfer)
		}
	}
	return transfers
}

// Reset forgets the recorded events.
func (b *Bus) Reset() {
	b.mu.Lock()
	b.events = nil
	b.mu.Unlock()
}

var _ conn.Bus = (*Bus)(nil)
