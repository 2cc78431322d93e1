package midi

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jsphweid/markovmidi/constants"
	"github.com/jsphweid/markovmidi/model"
	"github.com/natefinch/atomic"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Codec reads and writes standard MIDI files on a single channel. A zero
// Resolution is taken from the next file parsed, or
// constants.DefaultTicksPerQuarter if there is none.
type Codec struct {
	Resolution uint16
	Channel    uint8
}

// Parse reads the notes of path. Files written after it keep the timing of
// path unless c.Resolution was set beforehand.
func (c *Codec) Parse(path string) ([]model.Notes, error) {
	s, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if c.Resolution == 0 {
		c.Resolution = s.Resolution
	}
	return s.Tracks, nil
}

// Encode writes tracks to dst. The file is replaced atomically, so a failed
// write never leaves a truncated file behind.
func (c Codec) Encode(tracks []model.EventTrack, dst string) error {
	var buf bytes.Buffer
	if err := c.Write(&buf, tracks); err != nil {
		return err
	}
	if err := atomic.WriteFile(dst, &buf); err != nil {
		return fmt.Errorf("could not write midi file %v: %w", dst, err)
	}
	return nil
}

// Write encodes tracks as a format 1 SMF.
func (c Codec) Write(w io.Writer, tracks []model.EventTrack) error {
	res := smf.NewSMF1()
	res.TimeFormat = smf.MetricTicks(c.resolution())
	for _, t := range tracks {
		res.Tracks = append(res.Tracks, c.track(t))
	}
	if _, err := res.WriteTo(w); err != nil {
		return fmt.Errorf("could not encode midi: %w", err)
	}
	return nil
}

func (c Codec) resolution() uint16 {
	if c.Resolution == 0 {
		return constants.DefaultTicksPerQuarter
	}
	return c.Resolution
}

func (c Codec) track(t model.EventTrack) smf.Track {
	var track smf.Track
	if t.Name != "" {
		track.Add(0, smf.MetaTrackSequenceName(t.Name))
	}
	for _, evt := range t.Events {
		switch evt.Kind {
		case model.Begin:
			track.Add(evt.Delta, midi.NoteOn(c.Channel, evt.Pitch, evt.Velocity))
		case model.End:
			track.Add(evt.Delta, midi.NoteOffVelocity(c.Channel, evt.Pitch, evt.Velocity))
		}
	}
	track.Close(0)
	return track
}
