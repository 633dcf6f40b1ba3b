package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/notetab/batch"
	"github.com/jsphweid/notetab/constants"
	"github.com/jsphweid/notetab/model"
)

var csv2midiCombine bool

func init() {
	csv2midiCmd.Flags().BoolVar(&csv2midiCombine, "combine", false,
		"also combine the produced MIDI files into one combined.mid")
	rootCmd.AddCommand(csv2midiCmd)
}

var csv2midiCmd = &cobra.Command{
	Use:   "csv2midi [input] [output]",
	Short: "Converts CSV note table(s) back to MIDI file(s)",
	Long:  `Converts a CSV note table, or every CSV in a directory, back to MIDI files.`,
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		input, output := pathsOrDefaults(args, constants.GetOutputCSVDir(), constants.GetOutputMidiDir())
		report := batch.CSVToMidi(batch.Config{
			InputPath:     input,
			OutputPath:    output,
			CombineOutput: csv2midiCombine,
			Logger:        log.New(os.Stderr, "", log.LstdFlags),
		})
		printReport(report)
	},
}

func printReport(report model.BatchReport) {
	for _, path := range report.Succeeded {
		fmt.Printf("Wrote %v\n", path)
	}
	for _, f := range report.Failed {
		fmt.Printf("Failed %v: %v\n", f.Path, f.Err)
	}
}
