// Package prompt turns a free-text description into concrete musical
// parameters via keyword heuristics.
package prompt

import (
	"math/rand"
	"strings"

	"github.com/tabgenius/tabgenius/model"
)

type tempoRange struct {
	lo int
	hi int
}

var styleTempoRanges = map[string]tempoRange{
	"blues":     {70, 90},
	"country":   {90, 120},
	"rock":      {110, 140},
	"jazz":      {100, 130},
	"folk":      {80, 110},
	"classical": {80, 120},
}

func has(prompt string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(prompt, w) {
			return true
		}
	}
	return false
}

func detectStyle(prompt string) string {
	switch {
	case has(prompt, "blues"):
		return "blues"
	case has(prompt, "country", "outlaw"):
		return "country"
	case has(prompt, "rock", "metal"):
		return "rock"
	case has(prompt, "jazz"):
		return "jazz"
	case has(prompt, "folk", "acoustic"):
		return "folk"
	case has(prompt, "classical"):
		return "classical"
	default:
		return "rock"
	}
}

func detectKey(prompt string) string {
	switch {
	case has(prompt, "dark", "minor", "sad"):
		if has(prompt, "blues") {
			return "A minor"
		}
		return "E minor"
	case has(prompt, "bright", "major", "happy"):
		return "C major"
	case has(prompt, "blues"):
		// blues-friendly key
		return "E minor"
	default:
		return "C major"
	}
}

func detectTempo(prompt string, style string, rng *rand.Rand) int {
	switch {
	case has(prompt, "slow", "ballad"):
		return 60
	case has(prompt, "fast", "quick"):
		return 140
	case has(prompt, "medium"):
		return 100
	}
	r, ok := styleTempoRanges[style]
	if !ok {
		r = tempoRange{90, 120}
	}
	return r.lo + rng.Intn(r.hi-r.lo+1)
}

func detectTuning(prompt string) string {
	switch {
	case has(prompt, "drop d", "drop-d"):
		return "drop_d"
	case has(prompt, "open"):
		return "open_g"
	default:
		return "standard"
	}
}

// Interpret derives style, key, tempo and tuning from a description. Tempo
// falls back to a random value in the style's typical range, so callers own
// the rng.
func Interpret(text string, rng *rand.Rand) model.MusicInfo {
	p := strings.ToLower(text)
	style := detectStyle(p)
	return model.MusicInfo{
		Style:  style,
		Key:    detectKey(p),
		Tempo:  detectTempo(p, style, rng),
		Tuning: detectTuning(p),
	}
}
