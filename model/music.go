package model

type Notes = []uint8

// MusicInfo is what the prompt interpreter derives from a text description
// and what melody generation consumes.
type MusicInfo struct {
	Style  string `json:"style"`
	Key    string `json:"key"`
	Tempo  int    `json:"tempo"`
	Tuning string `json:"tuning"`
}

// TimedNote is one generated melody note: a MIDI key held for a duration
// expressed in quarter-note beats.
type TimedNote struct {
	Key   uint8
	Beats float64
}
