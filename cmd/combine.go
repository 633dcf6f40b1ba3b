package cmd

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jsphweid/notetab/batch"
	"github.com/jsphweid/notetab/constants"
)

func init() {
	rootCmd.AddCommand(combineCmd)
}

var combineCmd = &cobra.Command{
	Use:   "combine [input-dir] [output-file]",
	Short: "Combines MIDI files into one",
	Long:  `Concatenates every MIDI file in a directory end to end into a single MIDI file.`,
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		inputDir := constants.GetInputMidiDir()
		outputPath := filepath.Join(constants.GetOutputMidiDir(), batch.CombinedMidiName)
		if len(args) >= 1 {
			inputDir = args[0]
		}
		if len(args) == 2 {
			outputPath = args[1]
		}
		logger := log.New(os.Stderr, "", log.LstdFlags)
		printReport(batch.CombineMidis(inputDir, outputPath, logger))
	},
}
