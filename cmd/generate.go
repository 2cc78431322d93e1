package cmd

import (
	"fmt"

	"github.com/jsphweid/markovmidi/generator"
	"github.com/jsphweid/markovmidi/markov"
	"github.com/jsphweid/markovmidi/midi"
)

type GenerateOptions struct {
	Tracks     int
	Notes      int
	Seed       uint64
	Seeded     bool
	Strict     bool
	// output ticks per quarter note, 0 keeps the input's
	Resolution uint16
}

func (o GenerateOptions) chainOptions() []markov.Option {
	opts := []markov.Option{markov.WithLogger(logger)}
	if o.Strict {
		opts = append(opts, markov.WithFallback(markov.FallbackNone))
	}
	return opts
}

func (o GenerateOptions) generatorOptions() []generator.Option {
	opts := []generator.Option{
		generator.WithNotesPerTrack(o.Notes),
		generator.WithLogger(logger),
	}
	if o.Seeded {
		opts = append(opts, generator.WithSeed(o.Seed))
	}
	return opts
}

// Generate trains a chain on infile and writes o.Tracks generated tracks to
// outfile. outfile is left untouched on any error.
func Generate(infile, outfile string, o GenerateOptions) error {
	if o.Tracks < 1 {
		return fmt.Errorf("%w: track count must be positive, got %d", generator.ErrInvalidArgument, o.Tracks)
	}

	codec := &midi.Codec{Resolution: o.Resolution}
	gen, err := generator.FromFile(codec, infile, codec, o.chainOptions(), o.generatorOptions()...)
	if err != nil {
		return err
	}
	return gen.Generate(outfile, o.Tracks)
}
