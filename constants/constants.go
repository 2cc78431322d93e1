package constants

import (
	"os"
	"strconv"
)

const (
	DefaultNotesPerTrack   = 100
	DefaultVelocity        = 127
	DefaultTicksPerQuarter = 480
	DefaultServeAddr       = ":8080"
)

const (
	// largest request body the server will parse
	MaxUploadSize = 8 * 1024 * 1024
	// most notes a single generation may produce, over all tracks
	MaxNotesPerRequest = 1 << 20
)

func GetNotesPerTrack() int {
	return envInt("MARKOV_NOTES_PER_TRACK", DefaultNotesPerTrack)
}

func GetVelocity() uint8 {
	v := envInt("MARKOV_VELOCITY", DefaultVelocity)
	if v < 1 || v > 127 {
		return DefaultVelocity
	}
	return uint8(v)
}

// GetTicksPerQuarter is the output resolution. 0 keeps the resolution of
// the input file, falling back to DefaultTicksPerQuarter.
func GetTicksPerQuarter() uint16 {
	v := envInt("MARKOV_TICKS_PER_QUARTER", 0)
	if v < 1 || v > 0x7fff {
		return 0
	}
	return uint16(v)
}

func GetServeAddr() string {
	addr := os.Getenv("MARKOV_SERVE_ADDR")
	if addr != "" {
		return addr
	}
	return DefaultServeAddr
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
