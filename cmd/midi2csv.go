package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/notetab/batch"
	"github.com/jsphweid/notetab/constants"
	"github.com/jsphweid/notetab/util"
)

var midi2csvCombine bool

func init() {
	midi2csvCmd.Flags().BoolVar(&midi2csvCombine, "combine", false,
		"also write a combined.csv when more than one file converts")
	rootCmd.AddCommand(midi2csvCmd)
}

var midi2csvCmd = &cobra.Command{
	Use:   "midi2csv [input] [output]",
	Short: "Converts MIDI file(s) to CSV note table(s)",
	Long:  `Converts a MIDI file, or every MIDI file in a directory, to CSV note tables.`,
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		input, output := pathsOrDefaults(args, constants.GetInputMidiDir(), constants.GetOutputCSVDir())
		report := batch.MidiToCSV(batch.Config{
			InputPath:     input,
			OutputPath:    output,
			CombineOutput: midi2csvCombine,
			Logger:        log.New(os.Stderr, "", log.LstdFlags),
		})
		printReport(report)
	},
}

func pathsOrDefaults(args []string, defaultInput, defaultOutput string) (string, string) {
	input, output := defaultInput, defaultOutput
	if len(args) >= 1 {
		input = args[0]
	}
	if len(args) == 2 {
		output = args[1]
	} else {
		// the defaulted output is a directory by convention; make sure it
		// exists so single-file conversions land inside it
		cobra.CheckErr(util.EnsureDir(output))
	}
	return input, output
}
