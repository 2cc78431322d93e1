package generator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/jsphweid/markovmidi/constants"
	"github.com/jsphweid/markovmidi/markov"
	"github.com/jsphweid/markovmidi/model"
)

// ErrInvalidArgument is returned for non-positive track or note counts,
// requests above constants.MaxNotesPerRequest notes and out of range
// velocities. Nothing is generated or written in that case.
var ErrInvalidArgument = errors.New("invalid argument")

// Source turns a file into note tracks.
type Source interface {
	Parse(path string) ([]model.Notes, error)
}

// Encoder persists generated tracks to dst.
type Encoder interface {
	Encode(tracks []model.EventTrack, dst string) error
}

// Generator walks a frozen chain to produce fixed-length tracks.
type Generator struct {
	chain         *markov.Chain
	enc           Encoder
	notesPerTrack int
	velocity      uint8
	rng           *rand.Rand
	logger        *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithNotesPerTrack sets the length of every generated track.
func WithNotesPerTrack(n int) Option {
	return func(g *Generator) { g.notesPerTrack = n }
}

// WithVelocity sets the velocity of every note start, 1-127.
func WithVelocity(v uint8) Option {
	return func(g *Generator) { g.velocity = v }
}

// WithSeed makes generation reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewPCG(seed, seed)) }
}

func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New freezes chain and returns a Generator reading from it. enc may be nil
// if only Sequence or Tracks are used.
func New(chain *markov.Chain, enc Encoder, opts ...Option) (*Generator, error) {
	g := &Generator{
		chain:         chain,
		enc:           enc,
		notesPerTrack: constants.GetNotesPerTrack(),
		velocity:      constants.GetVelocity(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}

	if chain == nil {
		return nil, fmt.Errorf("%w: nil chain", ErrInvalidArgument)
	}
	if g.notesPerTrack < 1 {
		return nil, fmt.Errorf("%w: notes per track must be positive, got %d", ErrInvalidArgument, g.notesPerTrack)
	}
	if g.notesPerTrack > constants.MaxNotesPerRequest {
		return nil, fmt.Errorf("%w: notes per track must be at most %d, got %d", ErrInvalidArgument, constants.MaxNotesPerRequest, g.notesPerTrack)
	}
	if g.velocity < 1 || g.velocity > 127 {
		return nil, fmt.Errorf("%w: velocity must be 1-127, got %d", ErrInvalidArgument, g.velocity)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	chain.Freeze()
	return g, nil
}

func (g *Generator) NotesPerTrack() int {
	return g.notesPerTrack
}

// Sequence samples trackCount independent tracks. Every track starts from
// markov.Start and only ever looks at the note it just produced.
func (g *Generator) Sequence(trackCount int) ([]model.Notes, error) {
	if trackCount < 1 {
		return nil, fmt.Errorf("%w: track count must be positive, got %d", ErrInvalidArgument, trackCount)
	}
	if trackCount > constants.MaxNotesPerRequest/g.notesPerTrack {
		return nil, fmt.Errorf("%w: %d tracks of %d notes exceed the limit of %d notes",
			ErrInvalidArgument, trackCount, g.notesPerTrack, constants.MaxNotesPerRequest)
	}

	var res []model.Notes
	for i := 0; i < trackCount; i++ {
		var notes model.Notes
		last := markov.Start
		for j := 0; j < g.notesPerTrack; j++ {
			note, err := g.chain.Next(g.rng, last)
			if err != nil {
				return nil, fmt.Errorf("track %d, note %d: %w", i, j, err)
			}
			notes = append(notes, note)
			last = markov.After(note)
		}
		res = append(res, notes)
	}
	return res, nil
}

// Events converts notes into back to back begin/end pairs: each note starts
// exactly when the previous one ends, and lasts for its duration.
func (g *Generator) Events(notes model.Notes) []model.Event {
	res := make([]model.Event, 0, 2*len(notes))
	for _, n := range notes {
		res = append(res,
			model.Event{Kind: model.Begin, Pitch: n.Pitch, Velocity: g.velocity, Delta: 0},
			model.Event{Kind: model.End, Pitch: n.Pitch, Velocity: 0, Delta: n.Duration},
		)
	}
	return res
}

// Tracks generates trackCount event tracks, named after a fresh run id.
func (g *Generator) Tracks(trackCount int) ([]model.EventTrack, error) {
	seqs, err := g.Sequence(trackCount)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	res := make([]model.EventTrack, len(seqs))
	for i, notes := range seqs {
		res[i] = model.EventTrack{
			Name:   fmt.Sprintf("%v #%d", runID, i+1),
			Events: g.Events(notes),
		}
	}

	g.logger.Debug("Tracks generated",
		slog.String("run_id", runID),
		slog.Int("tracks", trackCount),
		slog.Int("notes_per_track", g.notesPerTrack),
	)
	return res, nil
}

// Generate builds trackCount tracks and hands them to the encoder. The
// encoder is only called once every track has been generated.
func (g *Generator) Generate(dst string, trackCount int) error {
	if g.enc == nil {
		return fmt.Errorf("%w: no encoder", ErrInvalidArgument)
	}
	tracks, err := g.Tracks(trackCount)
	if err != nil {
		return err
	}
	if err := g.enc.Encode(tracks, dst); err != nil {
		return err
	}

	g.logger.Info("Generated midi file",
		slog.String("path", dst),
		slog.Int("tracks", trackCount),
	)
	return nil
}

// FromFile parses src, trains a chain on it and returns a Generator over it.
func FromFile(src Source, path string, enc Encoder, chainOpts []markov.Option, opts ...Option) (*Generator, error) {
	tracks, err := src.Parse(path)
	if err != nil {
		return nil, err
	}
	chain, err := markov.Build(tracks, chainOpts...)
	if err != nil {
		return nil, err
	}
	return New(chain, enc, opts...)
}
