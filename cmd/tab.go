package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tabgenius/tabgenius/constants"
	"github.com/tabgenius/tabgenius/midi"
	"github.com/tabgenius/tabgenius/tablature"
)

func init() {
	rootCmd.AddCommand(tabCmd)
}

var tabCmd = &cobra.Command{
	Use:   "tab <file.mid>",
	Short: "Converts a MIDI file to a guitar tab",
	Long:  `Converts a MIDI file to a guitar tab`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		notes := midi.ExtractNotes(s, constants.MaxMidiNotes)
		fmt.Println(tablature.RenderLabeled(tablature.Standard, notes))
		return nil
	},
}
