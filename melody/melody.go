// Package melody generates a short monophonic melody from interpreted
// musical parameters.
package melody

import (
	"math/rand"

	"github.com/tabgenius/tabgenius/model"
	"github.com/tabgenius/tabgenius/util"
)

// One octave of scale tones per supported key, as MIDI pitches.
var scalePatterns = map[string][]uint8{
	"C major": {60, 62, 64, 65, 67, 69, 71, 72},
	"E minor": {52, 54, 55, 57, 59, 60, 62, 64},
	"A minor": {57, 59, 60, 62, 64, 65, 67, 69},
}

// Per-style rhythm figures in quarter-note beats, one bar each.
var rhythmPatterns = map[string][]float64{
	"blues":     {0.75, 0.25, 0.5, 0.5, 1.0},
	"country":   {0.5, 0.5, 0.25, 0.25, 0.5, 0.5},
	"rock":      {0.25, 0.25, 0.5, 0.25, 0.25, 0.5},
	"jazz":      {0.33, 0.33, 0.34, 0.5, 0.5},
	"folk":      {0.5, 0.5, 0.5, 0.5},
	"classical": {0.25, 0.25, 0.25, 0.25, 0.5, 0.5},
}

// Generate walks the scale for the requested number of measures, one note
// per rhythm figure entry. Movement is capped at two scale steps so the line
// prefers steps over jumps.
func Generate(info model.MusicInfo, numMeasures int, rng *rand.Rand) []model.TimedNote {
	scale, ok := scalePatterns[info.Key]
	if !ok {
		scale = scalePatterns["C major"]
	}
	rhythm, ok := rhythmPatterns[info.Style]
	if !ok {
		rhythm = rhythmPatterns["rock"]
	}

	var res []model.TimedNote
	idx := rng.Intn(len(scale))
	for measure := 0; measure < numMeasures; measure++ {
		for _, beats := range rhythm {
			movement := rng.Intn(5) - 2
			idx = util.Clamp(idx+movement, 0, len(scale)-1)
			res = append(res, model.TimedNote{Key: scale[idx], Beats: beats})
		}
	}
	return res
}

// Pitches strips timing, leaving the bare note sequence the tablature
// mapper consumes.
func Pitches(notes []model.TimedNote) model.Notes {
	res := make(model.Notes, 0, len(notes))
	for _, n := range notes {
		res = append(res, n.Key)
	}
	return res
}
