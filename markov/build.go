package markov

import (
	"fmt"

	"github.com/jsphweid/markovmidi/model"
)

// Build trains a new chain on tracks. Every track contributes Start to its
// first note, then one transition per consecutive pair. Empty tracks are
// skipped. The returned chain is not frozen.
func Build(tracks []model.Notes, opts ...Option) (*Chain, error) {
	c := New(opts...)
	for i, track := range tracks {
		if err := c.Train(track); err != nil {
			return nil, fmt.Errorf("could not train on track %d: %w", i, err)
		}
	}
	return c, nil
}

// Train records a single track.
func (c *Chain) Train(track model.Notes) error {
	last := Start
	for _, n := range track {
		if err := c.Record(last, n); err != nil {
			return err
		}
		last = After(n)
	}
	return nil
}
