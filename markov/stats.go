package markov

import "github.com/jsphweid/markovmidi/util"

// Stats summarises a chain.
type Stats struct {
	States         int // states with at least one transition, Start included
	TotalChains    int // distinct state -> note links
	TotalFrequency int // every recorded transition
	StartingNotes  int // distinct notes seen after Start
}

func (c *Chain) Stats() Stats {
	var s Stats
	s.States = len(c.table)
	for _, cs := range c.table {
		s.TotalChains += len(cs.notes)
		s.TotalFrequency += int(util.Sum(cs.counts))
	}
	if cs, ok := c.table[Start]; ok {
		s.StartingNotes = len(cs.notes)
	}
	return s
}
