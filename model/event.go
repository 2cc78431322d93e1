package model

type EventKind uint8

const (
	Begin EventKind = iota
	End
)

func (k EventKind) String() string {
	if k == Begin {
		return "begin"
	}
	return "end"
}

// Event is a timed note boundary. Delta is in ticks relative to the
// previous event of the same track.
type Event struct {
	Kind     EventKind
	Pitch    uint8
	Velocity uint8
	Delta    uint32
}

type EventTrack struct {
	Name   string
	Events []Event
}
