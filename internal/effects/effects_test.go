package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredCapability(t *testing.T) {
	cases := map[string]string{"fs": "Fs", "net": "Net", "io": "Io", "time": "Time", "rng": "Rng", "ffi": "Ffi"}
	for effect, want := range cases {
		got, ok := RequiredCapability(effect)
		assert.True(t, ok, "%q should require a capability", effect)
		assert.Equal(t, want, got)
	}
	for _, unpaired := range []string{"alloc", "cpu", "atomics", "simd"} {
		_, ok := RequiredCapability(unpaired)
		assert.False(t, ok, "%q should not require a capability", unpaired)
	}
}

func TestIsFixedEffect(t *testing.T) {
	assert.True(t, IsFixedEffect("io"), "io should be a fixed effect")
	assert.False(t, IsFixedEffect("gpu"), "gpu should not be a fixed effect")
}

func TestParseManifest(t *testing.T) {
	data := []byte("entry: main\ngrants: [Io, Fs]\n")
	m, err := ParseManifest(data)
	require.NoError(t, err)
	assert.True(t, m.Grants("main", "Io"))
	assert.True(t, m.Grants("main", "Fs"))
	assert.False(t, m.Grants("main", "Net"), "did not expect Net to be granted")
	assert.False(t, m.Grants("other", "Io"), "grants should not apply to a different entry point")
}

func TestParseManifestRejectsUnknownToken(t *testing.T) {
	_, err := ParseManifest([]byte("entry: main\ngrants: [Bogus]\n"))
	assert.Error(t, err, "expected error for unknown capability token")
}

func TestNilManifestGrantsNothing(t *testing.T) {
	var m *Manifest
	assert.False(t, m.Grants("main", "Io"), "nil manifest should grant nothing")
}
