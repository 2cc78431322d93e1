package cmd

import (
	"fmt"

	"github.com/jsphweid/markovmidi/constants"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	genOpts GenerateOptions
)

var rootCmd = &cobra.Command{
	Use:   "markovmidi <infile> <outfile>",
	Short: "Generates MIDI from a Markov chain",
	Long: `Learns which note follows which in <infile> and writes randomly walked
tracks that follow the same transitions to <outfile>.`,
	Args: cobra.ExactArgs(2),
	// printed once by Execute
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// arguments are fine past this point, don't bury errors under usage
		cmd.SilenceUsage = true

		opts := genOpts
		opts.Seeded = cmd.Flags().Changed("seed")
		if err := Generate(args[0], args[1], opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %v track(s) to %v\n", opts.Tracks, args[1])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	flags := rootCmd.Flags()
	flags.IntVarP(&genOpts.Tracks, "tracks", "n", 1, "number of tracks to generate")
	flags.IntVar(&genOpts.Notes, "notes", constants.GetNotesPerTrack(), "number of notes per track")
	flags.Uint64Var(&genOpts.Seed, "seed", 0, "random seed, random when unset")
	flags.BoolVar(&genOpts.Strict, "strict", false, "fail when reaching a note that was never followed by another")
	flags.Uint16Var(&genOpts.Resolution, "ticks", constants.GetTicksPerQuarter(), "ticks per quarter note of the output file, 0 keeps the input's")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
