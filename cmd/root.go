package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "notetab",
	Short: "Convert between MIDI files and note tables",
	Long:  `Converts MIDI files to editable CSV note tables and back, and combines multiple MIDI files into one.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
