package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	t.Setenv("MARKOV_NOTES_PER_TRACK", "")
	t.Setenv("MARKOV_VELOCITY", "")
	t.Setenv("MARKOV_TICKS_PER_QUARTER", "")
	t.Setenv("MARKOV_SERVE_ADDR", "")

	assert := assert.New(t)
	assert.Equal(100, GetNotesPerTrack())
	assert.Equal(uint8(127), GetVelocity())
	assert.Equal(uint16(0), GetTicksPerQuarter())
	assert.Equal(":8080", GetServeAddr())
}

func TestOverrides(t *testing.T) {
	t.Setenv("MARKOV_NOTES_PER_TRACK", "16")
	t.Setenv("MARKOV_VELOCITY", "90")
	t.Setenv("MARKOV_TICKS_PER_QUARTER", "960")
	t.Setenv("MARKOV_SERVE_ADDR", "127.0.0.1:9000")

	assert := assert.New(t)
	assert.Equal(16, GetNotesPerTrack())
	assert.Equal(uint8(90), GetVelocity())
	assert.Equal(uint16(960), GetTicksPerQuarter())
	assert.Equal("127.0.0.1:9000", GetServeAddr())
}

func TestInvalidValuesFallBack(t *testing.T) {
	cases := map[string]string{
		"MARKOV_VELOCITY":          "300",
		"MARKOV_TICKS_PER_QUARTER": "abc",
	}
	for k, v := range cases {
		t.Setenv(k, v)
	}
	t.Setenv("MARKOV_NOTES_PER_TRACK", "lots")

	assert := assert.New(t)
	assert.Equal(uint8(127), GetVelocity())
	assert.Equal(uint16(0), GetTicksPerQuarter())
	assert.Equal(100, GetNotesPerTrack())
}

func TestNonPositiveNotesPerTrackIsPassedThrough(t *testing.T) {
	// rejected later by the generator, not silently replaced
	t.Setenv("MARKOV_NOTES_PER_TRACK", "0")
	assert.Equal(t, 0, GetNotesPerTrack())
}
