package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tabgenius",
	Short: "Guitar tablature generator",
	Long:  `Generates six-line ASCII guitar tabs from MIDI files, audio files or text descriptions.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
