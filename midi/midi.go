package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/tabgenius/tabgenius/model"
	"github.com/tabgenius/tabgenius/util"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF
	var err error

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)

	if err != nil {
		errText := fmt.Sprintf("Error reading midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))

	if err != nil {
		errText := fmt.Sprintf("Error parsing midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}

	return res, nil
}

type timedPitch struct {
	offset int64
	key    uint8
}

// ExtractNotes flattens note-on events from every track into a single
// time-ordered pitch sequence, capped at max. A well-formed file with no
// notes yields an empty slice and no error, which callers must keep distinct
// from a parse failure out of ReadMidiFile.
func ExtractNotes(s *smf.SMF, max int) model.Notes {
	var pitched []timedPitch

	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel uint8
			var key uint8
			var velocity uint8
			// a note-on with zero velocity is a disguised note-off
			if event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
				pitched = append(pitched, timedPitch{offset: absTicks, key: key})
			}
		}
	}

	sort.SliceStable(pitched, func(i, j int) bool {
		return pitched[i].offset < pitched[j].offset
	})

	n := util.Min(len(pitched), max)
	res := make(model.Notes, 0, n)
	for _, p := range pitched[:n] {
		res = append(res, p.key)
	}
	return res
}

// WriteMelody renders generated melody notes as a single-track SMF at the
// given tempo.
func WriteMelody(path string, bpm int, notes []model.TimedNote) error {
	clock := smf.MetricTicks(480)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(float64(bpm)))
	for _, n := range notes {
		dur := uint32(float64(clock.Ticks4th()) * n.Beats)
		tr.Add(0, midi.NoteOn(0, n.Key, 100))
		tr.Add(dur, midi.NoteOff(0, n.Key))
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = clock
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("could not add melody track: %w", err)
	}
	return s.WriteFile(path)
}
