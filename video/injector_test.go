package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/BeatGlow/hauntedmirror/random"
)

type run struct {
	noisy bool
	ticks int
}

// runs simulates ticks and returns every completed run; the trailing run may be cut short and is dropped.
func runs(in *Injector, ticks int) []run {
	var out []run
	current := run{noisy: in.Next(), ticks: 1}
	for i := 1; i < ticks; i++ {
		noisy := in.Next()
		if noisy == current.noisy {
			current.ticks++
			continue
		}
		out = append(out, current)
		current = run{noisy: noisy, ticks: 1}
	}
	return out
}

func TestInjectorStartsQuiet(t *testing.T) {
	in, err := NewInjector(random.New(1), DefaultBounds)
	require.NoError(t, err)
	for i := 0; i < DefaultBounds.QuietMin; i++ {
		require.False(t, in.Next(), "tick %d", i)
	}
}

func TestInjectorInvalidBounds(t *testing.T) {
	for _, bounds := range []Bounds{
		{},
		{NoisyMin: 20, NoisyMax: 20, QuietMin: 1, QuietMax: 2},
		{NoisyMin: 1, NoisyMax: 2, QuietMin: 0, QuietMax: 2},
		{NoisyMin: 10, NoisyMax: 2, QuietMin: 1, QuietMax: 2},
	} {
		_, err := NewInjector(random.New(1), bounds)
		assert.Error(t, err, "%+v", bounds)
	}
}

func TestInjectorDefaultRunLengths(t *testing.T) {
	in, err := NewInjector(random.New(7), DefaultBounds)
	require.NoError(t, err)

	var noisy, quiet int
	for i, r := range runs(in, 200_000) {
		require.Equal(t, i%2 == 1, r.noisy, "runs must alternate, starting quiet")
		if r.noisy {
			noisy++
			require.GreaterOrEqual(t, r.ticks, DefaultBounds.NoisyMin)
			require.Less(t, r.ticks, DefaultBounds.NoisyMax)
		} else {
			quiet++
			require.GreaterOrEqual(t, r.ticks, DefaultBounds.QuietMin)
			require.Less(t, r.ticks, DefaultBounds.QuietMax)
		}
	}
	assert.Positive(t, noisy)
	assert.Positive(t, quiet)
}

func TestPropertyInjectorRunLengths(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		noisyMin := rapid.IntRange(1, 50).Draw(t, "noisyMin")
		quietMin := rapid.IntRange(1, 200).Draw(t, "quietMin")
		bounds := Bounds{
			NoisyMin: noisyMin,
			NoisyMax: rapid.IntRange(noisyMin+1, noisyMin+300).Draw(t, "noisyMax"),
			QuietMin: quietMin,
			QuietMax: rapid.IntRange(quietMin+1, quietMin+600).Draw(t, "quietMax"),
		}
		in, err := NewInjector(random.New(rapid.Uint64().Draw(t, "seed")), bounds)
		require.NoError(t, err)

		for _, r := range runs(in, 10_000) {
			lo, hi := bounds.QuietMin, bounds.QuietMax
			if r.noisy {
				lo, hi = bounds.NoisyMin, bounds.NoisyMax
			}
			if r.ticks < lo || r.ticks >= hi {
				t.Fatalf("noisy=%t run of %d ticks outside [%d, %d)", r.noisy, r.ticks, lo, hi)
			}
		}
	})
}
