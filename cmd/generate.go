package cmd

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tabgenius/tabgenius/melody"
	"github.com/tabgenius/tabgenius/midi"
	"github.com/tabgenius/tabgenius/prompt"
	"github.com/tabgenius/tabgenius/tablature"
)

var (
	generateMeasures int
	generateMidiOut  string
)

func init() {
	generateCmd.Flags().IntVar(&generateMeasures, "measures", 4, "number of measures to generate")
	generateCmd.Flags().StringVar(&generateMidiOut, "midi-out", "", "also write the generated melody to this .mid file")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <description...>",
	Short: "Generates a guitar tab from a text description",
	Long:  `Generates a guitar tab from a text description, e.g. "slow dark blues"`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		info := prompt.Interpret(strings.Join(args, " "), rng)
		notes := melody.Generate(info, generateMeasures, rng)

		if generateMidiOut != "" {
			if err := midi.WriteMelody(generateMidiOut, info.Tempo, notes); err != nil {
				return err
			}
		}

		fmt.Printf("Style: %v, Key: %v, Tempo: %v BPM, Tuning: %v\n\n",
			info.Style, info.Key, info.Tempo, info.Tuning)
		fmt.Println(tablature.RenderLabeled(tablature.Standard, melody.Pitches(notes)))
		return nil
	},
}
