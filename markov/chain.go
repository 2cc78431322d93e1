package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/jsphweid/markovmidi/model"
)

var (
	// ErrUndefinedState is returned by Next when nothing was ever recorded
	// after the requested state.
	ErrUndefinedState = errors.New("undefined state")
	// ErrFrozen is returned by Record once the chain has been frozen.
	ErrFrozen = errors.New("chain is frozen")
	// ErrInvalidNote is returned by Record for pitches outside 0-127.
	ErrInvalidNote = errors.New("invalid note")
)

// Fallback decides what Next does for a state that has no transitions,
// typically the last note of a training track.
type Fallback int

const (
	// FallbackNone fails with ErrUndefinedState.
	FallbackNone Fallback = iota
	// FallbackAnyKnown picks uniformly among every distinct note the chain
	// has recorded as a transition target. An empty chain still fails with
	// ErrUndefinedState. This is the default.
	FallbackAnyKnown
)

// Transition is one possible next note and the number of times it was seen.
type Transition struct {
	Note  model.Note
	Count int
}

// candidates holds the outgoing transitions of a single state in the order
// they were first recorded.
type candidates struct {
	notes  []model.Note
	counts []int
	index  map[model.Note]int

	// running totals of counts, built on Freeze
	cum []int
}

func newCandidates() *candidates {
	return &candidates{index: make(map[model.Note]int)}
}

func (cs *candidates) add(n model.Note) {
	if i, ok := cs.index[n]; ok {
		cs.counts[i]++
		return
	}
	cs.index[n] = len(cs.notes)
	cs.notes = append(cs.notes, n)
	cs.counts = append(cs.counts, 1)
}

func (cs *candidates) cumulative() []int {
	cum := make([]int, len(cs.counts))
	total := 0
	for i, c := range cs.counts {
		total += c
		cum[i] = total
	}
	return cum
}

func (cs *candidates) pick(r *rand.Rand) model.Note {
	cum := cs.cum
	if cum == nil {
		cum = cs.cumulative()
	}
	x := intN(r, cum[len(cum)-1])
	return cs.notes[sort.SearchInts(cum, x+1)]
}

func intN(r *rand.Rand, n int) int {
	if r == nil {
		return rand.IntN(n)
	}
	return r.IntN(n)
}

// Chain is an order-1 Markov chain over notes.
//
// A Chain is not safe for concurrent use while it is being built. After
// Freeze it no longer changes and Next may be called from many goroutines,
// each with its own *rand.Rand.
type Chain struct {
	table    map[State]*candidates
	order    []State
	targets  *candidates
	frozen   bool
	fallback Fallback
	logger   *slog.Logger
}

// Option configures a Chain.
type Option func(*Chain)

// WithFallback sets the policy for states without transitions.
func WithFallback(f Fallback) Option {
	return func(c *Chain) { c.fallback = f }
}

// WithLogger sets the logger used by the chain. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) { c.SetLogger(logger) }
}

func New(opts ...Option) *Chain {
	c := &Chain{
		table:    make(map[State]*candidates),
		targets:  newCandidates(),
		fallback: FallbackAnyKnown,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Chain) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Record counts one observation of to following from.
func (c *Chain) Record(from State, to model.Note) error {
	if c.frozen {
		return ErrFrozen
	}
	if to.Pitch > model.MaxPitch {
		return fmt.Errorf("%w: pitch %d", ErrInvalidNote, to.Pitch)
	}
	cs, ok := c.table[from]
	if !ok {
		cs = newCandidates()
		c.table[from] = cs
		c.order = append(c.order, from)
	}
	cs.add(to)
	c.targets.add(to)
	return nil
}

// Freeze ends the build phase. Cumulative weights are computed once here so
// that Next does no allocation afterwards. Calling Freeze again is a no-op.
func (c *Chain) Freeze() {
	if c.frozen {
		return
	}
	for _, cs := range c.table {
		cs.cum = cs.cumulative()
	}
	c.frozen = true

	stats := c.Stats()
	c.logger.Debug("Chain frozen",
		slog.Int("states", stats.States),
		slog.Int("total_chains", stats.TotalChains),
		slog.Int("total_frequency", stats.TotalFrequency),
	)
}

func (c *Chain) Frozen() bool {
	return c.frozen
}

// Next samples the note that follows from. Each candidate is returned with
// probability count/total over the candidates of from. A nil r uses the
// global source.
func (c *Chain) Next(r *rand.Rand, from State) (model.Note, error) {
	cs, ok := c.table[from]
	if ok {
		return cs.pick(r), nil
	}

	if c.fallback == FallbackAnyKnown && len(c.targets.notes) > 0 {
		c.logger.Debug("Falling back to any known note", slog.String("state", from.String()))
		return c.targets.notes[intN(r, len(c.targets.notes))], nil
	}
	return model.Note{}, fmt.Errorf("%w: %s", ErrUndefinedState, from)
}

// Candidates returns a copy of the transitions recorded after from, in the
// order they were first seen. It returns nil for unknown states.
func (c *Chain) Candidates(from State) []Transition {
	cs, ok := c.table[from]
	if !ok {
		return nil
	}
	res := make([]Transition, len(cs.notes))
	for i, n := range cs.notes {
		res[i] = Transition{Note: n, Count: cs.counts[i]}
	}
	return res
}

// States returns every state with at least one transition, in the order
// they were first recorded.
func (c *Chain) States() []State {
	res := make([]State, len(c.order))
	copy(res, c.order)
	return res
}
