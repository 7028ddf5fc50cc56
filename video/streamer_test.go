package video

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/hauntedmirror/conn/conntest"
	"github.com/BeatGlow/hauntedmirror/display"
	"github.com/BeatGlow/hauntedmirror/pixel"
	"github.com/BeatGlow/hauntedmirror/random"
)

type stillSource struct {
	frame *pixel.RGB565Image
}

func (s stillSource) CurrentFrame() *pixel.RGB565Image { return s.frame }

// fixedSource returns the same value for every draw and the lower bound of every range.
type fixedSource uint32

func (s fixedSource) Uint32() uint32        { return uint32(s) }
func (s fixedSource) IntN(min, max int) int { return min }

func newTestScreen(t *testing.T, width, height int) (*display.Display, *conntest.Bus) {
	t.Helper()
	bus := conntest.New(0, 0)
	bus.AutoComplete = true
	d, err := display.New(bus, &display.Config{Width: width, Height: height})
	require.NoError(t, err)
	return d, bus
}

func patternFrame(width, height int) *pixel.RGB565Image {
	frame := pixel.NewRGB565Image(width, height, pixel.RGB)
	for i := range frame.Pix {
		frame.Pix[i] = byte(i * 7)
	}
	return frame
}

func enqueued(bus *conntest.Bus) [][]byte {
	var out [][]byte
	for _, e := range bus.Events() {
		if e.Kind == conntest.EnqueueEvent {
			out = append(out, e.Data)
		}
	}
	return out
}

func TestUpdateSendsFrameRows(t *testing.T) {
	screen, bus := newTestScreen(t, 240, 240)
	frame := patternFrame(200, 200)
	s, err := NewStreamer(screen, stillSource{frame}, random.New(1), &Config{})
	require.NoError(t, err)

	require.NoError(t, s.Update())
	assert.Equal(t, []conntest.Window{{X0: 20, Y0: 20, X1: 220, Y1: 220}}, bus.Windows())

	stripes := enqueued(bus)
	require.Len(t, stripes, 200/DefaultStripeHeight)
	for i, data := range stripes {
		assert.Equal(t, frame.Rows(i*DefaultStripeHeight, DefaultStripeHeight), data, "stripe %d", i)
	}

	require.NoError(t, s.Update())
	assert.Len(t, bus.Windows(), 2)
}

func TestUpdateInjectsStatic(t *testing.T) {
	screen, bus := newTestScreen(t, 240, 240)
	frame := patternFrame(240, 240)
	s, err := NewStreamer(screen, stillSource{frame}, fixedSource(0xa0a0a0a0), &Config{
		Static: true,
		Bounds: Bounds{NoisyMin: 1000, NoisyMax: 1001, QuietMin: 1, QuietMax: 2},
	})
	require.NoError(t, err)
	require.NoError(t, s.Update())

	stripes := enqueued(bus)
	require.Len(t, stripes, 30)
	assert.Equal(t, frame.Rows(0, DefaultStripeHeight), stripes[0], "first tick is quiet")

	gray := make([]byte, 2)
	binary.BigEndian.PutUint16(gray, pixel.Gray565(0xa0))
	for i, data := range stripes[1:] {
		require.Len(t, data, 240*DefaultStripeHeight*2)
		for j := 0; j < len(data); j += 2 {
			require.Equal(t, gray, data[j:j+2], "stripe %d pixel %d", i+1, j/2)
		}
	}
}

func TestUpdateStripeHeight(t *testing.T) {
	screen, bus := newTestScreen(t, 240, 240)
	s, err := NewStreamer(screen, stillSource{patternFrame(200, 204)}, random.New(1), &Config{})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Update(), ErrStripeHeight)
	assert.Empty(t, bus.Events())
}

func TestNewStreamerErrors(t *testing.T) {
	screen, _ := newTestScreen(t, 240, 240)
	_, err := NewStreamer(screen, stillSource{}, random.New(1), &Config{StripeHeight: 241})
	assert.Error(t, err)
	_, err = NewStreamer(screen, stillSource{}, random.New(1), &Config{Static: true})
	assert.Error(t, err, "static needs bounds")
}

func TestBlank(t *testing.T) {
	for _, height := range []int{240, 250} {
		screen, bus := newTestScreen(t, 240, height)
		s, err := NewStreamer(screen, stillSource{}, random.New(1), &Config{})
		require.NoError(t, err)

		require.NoError(t, s.Blank())
		assert.Equal(t, []conntest.Window{{X0: 0, Y0: 0, X1: 240, Y1: height}}, bus.Windows())
		assert.Zero(t, bus.Pending(), "blank frame is on the glass")

		var size int
		for _, data := range enqueued(bus) {
			size += len(data)
			for _, b := range data {
				require.Zero(t, b)
			}
		}
		assert.Equal(t, 240*height*2, size)
	}
}

func TestFillNoise(t *testing.T) {
	pix := make([]byte, 10)
	fillNoise(fixedSource(0xf0e0d0c0), pix)

	var want []byte
	for _, y := range []uint8{0xc0, 0xd0, 0xe0, 0xf0, 0xc0} {
		want = binary.BigEndian.AppendUint16(want, pixel.Gray565(y))
	}
	assert.Equal(t, want, pix)
}
