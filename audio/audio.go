// Package audio extracts a pitch sequence from an audio file by shelling
// out to the aubio CLI.
package audio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tabgenius/tabgenius/constants"
	"github.com/tabgenius/tabgenius/model"
)

func mustHave(bin string) error {
	_, err := exec.LookPath(bin)
	return err
}

// runCmd keeps stdout apart from stderr: a nonzero exit is always an error,
// never a parseable-but-empty transcription.
func runCmd(bin string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%v: %v", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// parseNotes reads `aubio notes` output: one line per detected note, the
// first field being the MIDI pitch as a float. Trailing onset-only lines
// have a single field and are skipped.
func parseNotes(out string) model.Notes {
	var res model.Notes
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		pitch := int(math.Round(v))
		if pitch < constants.MinGuitarPitch || pitch > constants.MaxGuitarPitch {
			continue
		}
		res = append(res, uint8(pitch))
	}
	return res
}

// collapse drops a note within one semitone of the previously kept note.
// Noisy pitch tracking reports near-duplicates on sustained notes; they are
// removed here, before the tablature mapper ever sees the sequence.
func collapse(notes model.Notes) model.Notes {
	var res model.Notes
	for _, n := range notes {
		if len(res) == 0 || absDiff(n, res[len(res)-1]) > 1 {
			res = append(res, n)
		}
	}
	return res
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

// ExtractNotes transcribes an audio file to an ordered MIDI pitch sequence.
// A run that detects nothing returns an empty slice and no error; a missing
// or failing aubio binary is an error.
func ExtractNotes(path string) (model.Notes, error) {
	bin := constants.GetAubioBin()
	if err := mustHave(bin); err != nil {
		return nil, errors.New("aubio not found")
	}
	out, err := runCmd(bin, "notes", "-i", path)
	if err != nil {
		return nil, fmt.Errorf("aubio notes failed: %v", err)
	}

	notes := collapse(parseNotes(out))
	if len(notes) > constants.MaxAudioNotes {
		notes = notes[:constants.MaxAudioNotes]
	}
	return notes, nil
}
