package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/markovmidi/markov"
	"github.com/jsphweid/markovmidi/midi"
	"github.com/jsphweid/markovmidi/model"
	"github.com/jsphweid/markovmidi/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <infile>",
	Short: "Inspects the chain learned from a file",
	Long:  `Prints how many states and transitions a file produces, which notes can start a track and how often each pitch occurs.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		tracks, err := midi.ReadFile(args[0])
		if err != nil {
			return err
		}
		res, err := describe(tracks)
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), res)
		return nil
	},
}

func describe(tracks []model.Notes) (model.InspectResponse, error) {
	var res model.InspectResponse
	chain, err := markov.Build(tracks, markov.WithLogger(logger))
	if err != nil {
		return res, err
	}
	chain.Freeze()

	stats := chain.Stats()
	res.Tracks = len(tracks)
	res.States = stats.States
	res.TotalChains = stats.TotalChains
	res.TotalFrequency = stats.TotalFrequency
	res.StartingNotes = stats.StartingNotes

	res.Starts = make([]model.Transition, 0, stats.StartingNotes)
	for _, t := range chain.Candidates(markov.Start) {
		res.Starts = append(res.Starts, model.Transition{
			Pitch:    t.Note.Pitch,
			Duration: t.Note.Duration,
			Count:    t.Count,
		})
	}

	res.Pitches = make(map[uint8]int)
	for _, track := range tracks {
		for _, n := range track {
			res.Pitches[n.Pitch]++
		}
	}
	return res, nil
}

func printReport(w io.Writer, res model.InspectResponse) {
	fmt.Fprintf(w, "tracks: %v\n", res.Tracks)
	fmt.Fprintf(w, "states: %v\n", res.States)
	fmt.Fprintf(w, "transitions: %v distinct, %v total\n", res.TotalChains, res.TotalFrequency)
	fmt.Fprintf(w, "starting notes: %v\n", res.StartingNotes)
	for _, t := range res.Starts {
		fmt.Fprintf(w, "  pitch %v, %v ticks: %v\n", t.Pitch, t.Duration, t.Count)
	}
	fmt.Fprintln(w, "pitches:")
	for _, p := range util.GetKeys(res.Pitches) {
		fmt.Fprintf(w, "  %v: %v\n", p, res.Pitches[p])
	}
}
