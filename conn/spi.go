package conn

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	periphconn "periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/BeatGlow/hauntedmirror/controller"
	"github.com/BeatGlow/hauntedmirror/internal/syncutil"
)

var debug bool

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Port is the periph SPI port name, such as "SPI0.0". Empty opens the first port.
	Port string

	// SpeedHz is the SPI clock.
	SpeedHz uint32

	// Mode is the SPI mode, the supported controllers use mode 3 (CPOL=1, CPHA=1).
	Mode spi.Mode

	// QueueSize is the number of asynchronous transfers that may be queued.
	QueueSize int

	// MaxTransferSize is the largest asynchronous transfer in bytes.
	MaxTransferSize int

	// Timeout bounds every wait on the asynchronous queue.
	Timeout time.Duration

	// Reset pin, nil or gpio.INVALID if the controller has no reset line.
	Reset gpio.PinOut

	// DC is the data/command select pin.
	DC gpio.PinOut

	// CS is the chip select pin, nil if the SPI port drives it.
	CS gpio.PinOut

	// Controller to bring up.
	Controller *controller.Controller

	// Clock used for delays and timeouts, nil for the real clock.
	Clock clockwork.Clock
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	SpeedHz:         80_000_000,
	Mode:            spi.Mode3,
	QueueSize:       DefaultQueueSize,
	MaxTransferSize: DefaultMaxTransferSize,
	Timeout:         DefaultTimeout,
}

// ValidSPISpeeds are common valid SPI bus speeds.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	8_000_000,
	16_000_000,
	20_000_000,
	24_000_000,
	28_000_000,
	32_000_000,
	36_000_000,
	40_000_000,
	48_000_000,
	50_000_000,
	52_000_000,
	62_500_000,
	80_000_000,
}

const (
	commandLevel = gpio.Low
	dataLevel    = gpio.High

	resetSettle = 100 * time.Millisecond
)

type spiBus struct {
	// mu serializes transfers between the queue goroutine and synchronous writes.
	mu      syncutil.Mutex
	port    spi.Port
	conn    spi.Conn
	ctlr    *controller.Controller
	clock   clockwork.Clock
	timeout time.Duration
	maxTx   int
	reset   gpio.PinOut
	dc      gpio.PinOut
	dcLevel gpio.Level
	cs      gpio.PinOut
	queue   chan *Transfer
	done    chan *Transfer
	stopped chan struct{}
	closed  bool
}

// OpenSPI opens the configured SPI port and brings up the display controller.
func OpenSPI(config *SPIConfig) (Bus, error) {
	p, err := spireg.Open(config.Port)
	if err != nil {
		return nil, err
	}
	return NewSPI(p, config)
}

// NewSPI connects to the port and brings up the display controller. The bus
// owns the port from here on: it is closed on Close, or before NewSPI returns
// an error, if it is an io.Closer.
func NewSPI(port spi.Port, config *SPIConfig) (Bus, error) {
	b, err := newSPI(port, config)
	if err != nil {
		closePort(port)
		return nil, err
	}
	if err = b.ctlr.Execute(b); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func closePort(port spi.Port) {
	if closer, ok := port.(io.Closer); ok {
		_ = closer.Close()
	}
}

func newSPI(port spi.Port, config *SPIConfig) (*spiBus, error) {
	cfg := DefaultSPIConfig
	if config != nil {
		cfg = *config
	}
	if cfg.DC == nil || cfg.DC == gpio.INVALID {
		return nil, ErrDCPin
	}
	if cfg.Controller == nil {
		return nil, fmt.Errorf("conn: no display controller configured")
	}
	if cfg.SpeedHz == 0 {
		cfg.SpeedHz = DefaultSPIConfig.SpeedHz
	}
	var valid bool
	for _, speed := range ValidSPISpeeds {
		if valid = speed == cfg.SpeedHz; valid {
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("conn: invalid SPI speed %dHz", cfg.SpeedHz)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.MaxTransferSize <= 0 {
		cfg.MaxTransferSize = DefaultMaxTransferSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Reset == gpio.INVALID {
		cfg.Reset = nil
	}

	c, err := port.Connect(physic.Frequency(cfg.SpeedHz)*physic.Hertz, cfg.Mode, 8)
	if err != nil {
		return nil, fmt.Errorf("conn: SPI connect: %w", err)
	}
	maxTx := cfg.MaxTransferSize
	if limits, ok := c.(periphconn.Limits); ok {
		if n := limits.MaxTxSize(); n > 0 && n < maxTx {
			maxTx = n
		}
	}

	b := &spiBus{
		port:    port,
		conn:    c,
		ctlr:    cfg.Controller,
		clock:   cfg.Clock,
		timeout: cfg.Timeout,
		maxTx:   maxTx,
		reset:   cfg.Reset,
		dc:      cfg.DC,
		cs:      cfg.CS,
		queue:   make(chan *Transfer, cfg.QueueSize),
		done:    make(chan *Transfer, cfg.QueueSize),
		stopped: make(chan struct{}),
	}
	if err = b.initGPIO(); err != nil {
		_ = b.release()
		return nil, err
	}
	go b.run()

	log.Info().
		Str("port", port.String()).
		Str("controller", b.ctlr.Name).
		Uint32("speed_hz", cfg.SpeedHz).
		Int("max_transfer", maxTx).
		Int("queue", cfg.QueueSize).
		Msg("display bus open")
	return b, nil
}

func (b *spiBus) initGPIO() (err error) {
	if b.cs != nil {
		if err = b.cs.Out(gpio.Low); err != nil {
			return fmt.Errorf("conn: CS: %w", err)
		}
	}
	if err = b.dc.Out(commandLevel); err != nil {
		return fmt.Errorf("conn: DC: %w", err)
	}
	b.dcLevel = commandLevel

	// Reset the controller if it has a reset line.
	if b.reset == nil {
		return nil
	}
	for _, level := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err = b.reset.Out(level); err != nil {
			return fmt.Errorf("conn: reset: %w", err)
		}
		b.clock.Sleep(resetSettle)
	}
	return nil
}

// run is the hardware queue: it moves transfers onto the wire one at a time
// and reports them done in submission order.
func (b *spiBus) run() {
	defer close(b.stopped)
	for t := range b.queue {
		b.mu.Lock()
		t.Err = b.conn.Tx(t.Data, nil)
		b.mu.Unlock()
		b.done <- t
	}
}

func (b *spiBus) String() string {
	return fmt.Sprintf("SPI bus %s (%s)", b.port, b.ctlr)
}

func (b *spiBus) Close() error {
	if b.closed {
		return ErrClosed
	}
	b.closed = true

	// Let queued transfers finish, discarding their results.
	close(b.queue)
	for stopped := false; !stopped; {
		select {
		case <-b.done:
		case <-b.stopped:
			stopped = true
		}
	}

	var err error
	if closer, ok := b.port.(io.Closer); ok {
		err = closer.Close()
	}
	if haltErr := b.release(); err == nil {
		err = haltErr
	}
	return err
}

// release halts every GPIO line the bus drives.
func (b *spiBus) release() (err error) {
	for _, pin := range []gpio.PinOut{b.reset, b.dc, b.cs} {
		if pin == nil {
			continue
		}
		if haltErr := pin.Halt(); err == nil {
			err = haltErr
		}
	}
	return
}

func (b *spiBus) updateDC(level gpio.Level) error {
	if b.dcLevel != level {
		if err := b.dc.Out(level); err != nil {
			return err
		}
		b.dcLevel = level
	}
	return nil
}

func (b *spiBus) write(level gpio.Level, data []byte) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err = b.updateDC(level); err != nil {
		return
	}
	for len(data) > 0 {
		n := min(len(data), b.maxTx)
		if err = b.conn.Tx(data[:n], nil); err != nil {
			return
		}
		data = data[n:]
	}
	return
}

func (b *spiBus) WriteCommand(cmd byte) error {
	if debug {
		log.Debug().Hex("cmd", []byte{cmd}).Msg("write command")
	}
	return b.write(commandLevel, []byte{cmd})
}

func (b *spiBus) WriteData(data []byte) error {
	if debug {
		log.Debug().Hex("data", data).Msg("write data")
	}
	return b.write(dataLevel, data)
}

// Delay implements controller.InitOps.
func (b *spiBus) Delay(d time.Duration) {
	if debug {
		log.Debug().Dur("delay", d).Msg("delaying")
	}
	b.clock.Sleep(d)
}

// Error implements controller.InitOps.
func (b *spiBus) Error(err error) {
	log.Error().Err(err).Str("controller", b.ctlr.Name).Msg("init string rejected")
}

func (b *spiBus) StartWrite(x0, y0, x1, y1 int) (err error) {
	x0 += int(b.ctlr.ColumnStartAdjust)
	x1 += int(b.ctlr.ColumnEndAdjust)
	y0 += int(b.ctlr.RowStartAdjust)
	y1 += int(b.ctlr.RowEndAdjust)
	for _, v := range []int{x0, y0, x1, y1} {
		if v < 0 || v > 0xffff {
			return fmt.Errorf("conn: address window (%d,%d)-(%d,%d) out of range", x0, y0, x1, y1)
		}
	}

	if err = b.WriteCommand(controller.CASET); err != nil {
		return
	}
	if err = b.WriteData(Address(uint16(x0), uint16(x1))); err != nil {
		return
	}
	if err = b.WriteCommand(controller.RASET); err != nil {
		return
	}
	if err = b.WriteData(Address(uint16(y0), uint16(y1))); err != nil {
		return
	}
	if err = b.WriteCommand(controller.RAMWR); err != nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.updateDC(dataLevel)
}

func (b *spiBus) Enqueue(t *Transfer) error {
	CheckTransfer(t, b.maxTx)
	if b.closed {
		return ErrClosed
	}

	select {
	case b.queue <- t:
		return nil
	default:
	}

	timer := b.clock.NewTimer(b.timeout)
	defer timer.Stop()
	select {
	case b.queue <- t:
		return nil
	case <-timer.Chan():
		return fmt.Errorf("%w: queueing %d byte transfer", ErrTimeout, len(t.Data))
	}
}

func (b *spiBus) Await() (*Transfer, error) {
	if b.closed {
		return nil, ErrClosed
	}

	var t *Transfer
	select {
	case t = <-b.done:
	default:
		timer := b.clock.NewTimer(b.timeout)
		defer timer.Stop()
		select {
		case t = <-b.done:
		case <-timer.Chan():
			return nil, fmt.Errorf("%w: awaiting transfer", ErrTimeout)
		}
	}
	if t.Err != nil {
		return t, fmt.Errorf("conn: transfer of %d bytes: %w", len(t.Data), t.Err)
	}
	return t, nil
}

func (b *spiBus) MaxTransferSize() int {
	return b.maxTx
}

var _ controller.InitOps = (*spiBus)(nil)
