package markov

import "github.com/jsphweid/markovmidi/model"

// State is the lookup key of a Chain: either Start or the note that was
// played last. States compare by value.
type State struct {
	start bool
	note  model.Note
}

// Start is the state before the first note of a track.
var Start = State{start: true}

// After returns the state reached once n has been played.
func After(n model.Note) State {
	return State{note: n}
}

func (s State) IsStart() bool {
	return s.start
}

// Note returns the note behind s. ok is false for Start.
func (s State) Note() (n model.Note, ok bool) {
	return s.note, !s.start
}

func (s State) String() string {
	if s.start {
		return "START"
	}
	return s.note.String()
}
