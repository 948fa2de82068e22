package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tabgenius/tabgenius/audio"
	"github.com/tabgenius/tabgenius/tablature"
)

func init() {
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file.wav>",
	Short: "Transcribes an audio file to a guitar tab",
	Long:  `Transcribes an audio file to a guitar tab using the aubio CLI`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := audio.ExtractNotes(args[0])
		if err != nil {
			return err
		}
		fmt.Println(tablature.RenderLabeled(tablature.Standard, notes))
		return nil
	},
}
