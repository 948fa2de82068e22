package tablature

import (
	"fmt"
	"strings"
)

// Tuning holds the open-string MIDI pitch of each string in display order,
// highest-pitched string first (the top line of a printed tab).
type Tuning [6]int

var (
	Standard = Tuning{64, 59, 55, 50, 45, 40}
	DropD    = Tuning{64, 59, 55, 50, 45, 38}
	OpenG    = Tuning{62, 59, 55, 50, 43, 38}
)

// MaxFret is the highest fret a note can be placed on.
const MaxFret = 24

// NoNotesSentinel is returned for an empty note sequence instead of six
// empty lines.
const NoNotesSentinel = "No notes detected."

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// StringNames returns the pitch-class name of each open string, e.g.
// E B G D A E for standard tuning.
func StringNames(t Tuning) [6]string {
	var res [6]string
	for i, p := range t {
		res[i] = noteNames[((p%12)+12)%12]
	}
	return res
}

// closestString picks the string whose open pitch is nearest to note,
// lowest index winning ties.
func closestString(t Tuning, note int) int {
	best := 0
	for i := 1; i < len(t); i++ {
		if abs(note-t[i]) < abs(note-t[best]) {
			best = i
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// fretCell renders a playable fret as a fixed 3-character cell.
func fretCell(fret int) string {
	if fret < 10 {
		return fmt.Sprintf("-%d-", fret)
	}
	return fmt.Sprintf("%d-", fret)
}

// Render maps an ordered note sequence onto six tab lines, one per string.
//
// Placement is first playable string in display order: the note goes to the
// first string where 0 <= note-open <= MaxFret and every other string gets a
// rest cell for that slot. Real fingering would minimize hand movement or
// prefer lower positions; this rule is a known simplification, kept because
// changing it changes the rendered output.
//
// A note no string can play is charged to the string with the nearest open
// pitch and that slot becomes an annotated "(fret)" cell.
// TODO: "(fret)" cells are wider than 3 characters and break column
// alignment across the other five strings.
//
// Render is pure: same tuning and notes always produce identical output, so
// callers are free to memoize by (tuning, notes).
func Render(t Tuning, notes []uint8) string {
	return render(t, notes, false)
}

// RenderLabeled is Render with each line prefixed by its string name, the
// form shown to users ("E|-0----...").
func RenderLabeled(t Tuning, notes []uint8) string {
	return render(t, notes, true)
}

func render(t Tuning, notes []uint8, labeled bool) string {
	if len(notes) == 0 {
		return NoNotesSentinel
	}

	var lines [6]string
	if labeled {
		names := StringNames(t)
		for i := range lines {
			lines[i] = names[i] + "|"
		}
	}

	for _, n := range notes {
		placed := false
		for i, open := range t {
			fret := int(n) - open
			if !placed && fret >= 0 && fret <= MaxFret {
				lines[i] += fretCell(fret)
				placed = true
			} else {
				lines[i] += "---"
			}
		}
		if !placed {
			i := closestString(t, int(n))
			fret := int(n) - t[i]
			lines[i] = lines[i][:len(lines[i])-3] + fmt.Sprintf("(%d)", fret)
		}
	}

	return strings.Join(lines[:], "\n")
}
