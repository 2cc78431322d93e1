package model

import "fmt"

// MaxPitch is the highest MIDI key number.
const MaxPitch = 127

// Note is a single monophonic note: a MIDI key held for Duration ticks.
type Note struct {
	Pitch    uint8
	Duration uint32
}

func (n Note) String() string {
	return fmt.Sprintf("%d:%d", n.Pitch, n.Duration)
}

// Notes is one parsed or generated track, in play order.
type Notes = []Note
