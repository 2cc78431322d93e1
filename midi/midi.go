package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/markovmidi/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrNoNotes is returned when a file parses but contains no note events.
var ErrNoNotes = errors.New("no notes found")

// Score is the content of a MIDI file as far as note generation cares.
type Score struct {
	// ticks per quarter note, 0 for SMPTE based files
	Resolution uint16
	Tracks     []model.Notes
}

func ReadFile(filepath string) ([]model.Notes, error) {
	s, err := DecodeFile(filepath)
	if err != nil {
		return nil, err
	}
	return s.Tracks, nil
}

// Read parses a standard MIDI file into one note sequence per track.
// Tracks without notes (tempo maps, lyrics...) are dropped.
func Read(r io.Reader) ([]model.Notes, error) {
	s, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return s.Tracks, nil
}

func DecodeFile(filepath string) (Score, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return Score{}, fmt.Errorf("error reading midi file: %w", err)
	}
	return Decode(bytes.NewReader(dat))
}

// Decode is Read plus the file's resolution.
func Decode(r io.Reader) (res Score, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			res = Score{}
			e = fmt.Errorf("error parsing midi file: %v", rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return Score{}, fmt.Errorf("error parsing midi file: %w", err)
	}

	if ticks, ok := s.TimeFormat.(smf.MetricTicks); ok {
		res.Resolution = uint16(ticks)
	}
	for _, track := range s.Tracks {
		notes := trackNotes(track)
		if len(notes) > 0 {
			res.Tracks = append(res.Tracks, notes)
		}
	}
	if len(res.Tracks) == 0 {
		return Score{}, ErrNoNotes
	}
	return res, nil
}

type sounding struct {
	index int
	onset int64
}

func noteKey(channel, key uint8) uint16 {
	return uint16(channel)<<8 | uint16(key)
}

// trackNotes flattens a track into notes ordered by onset. A note off ends
// the oldest sounding note with the same channel and key; notes that are
// never released end with the track.
func trackNotes(track smf.Track) model.Notes {
	var notes model.Notes
	open := make(map[uint16][]sounding)

	var absTicks int64
	for _, event := range track {
		absTicks += int64(event.Delta)
		var channel, key, velocity uint8
		switch {
		case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
			k := noteKey(channel, key)
			open[k] = append(open[k], sounding{index: len(notes), onset: absTicks})
			notes = append(notes, model.Note{Pitch: key})
		case event.Message.GetNoteOff(&channel, &key, &velocity),
			event.Message.GetNoteOn(&channel, &key, &velocity):
			k := noteKey(channel, key)
			if len(open[k]) == 0 {
				continue
			}
			first := open[k][0]
			notes[first.index].Duration = uint32(absTicks - first.onset)
			open[k] = open[k][1:]
		}
	}

	for _, pending := range open {
		for _, s := range pending {
			notes[s.index].Duration = uint32(absTicks - s.onset)
		}
	}
	return notes
}
