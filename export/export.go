// Package export formats a rendered tab for download.
package export

import (
	"fmt"
	"strings"

	"github.com/tabgenius/tabgenius/model"
)

// Format wraps a tab in the downloadable text layout, with a metadata
// header when the tab came from a generated melody.
func Format(tab string, info *model.MusicInfo) string {
	var b strings.Builder
	b.WriteString("Guitar Tablature\n")
	b.WriteString("================\n\n")

	if info != nil {
		fmt.Fprintf(&b, "Style: %v\n", info.Style)
		fmt.Fprintf(&b, "Key: %v\n", info.Key)
		fmt.Fprintf(&b, "Tempo: %v BPM\n", info.Tempo)
		fmt.Fprintf(&b, "Tuning: %v\n\n", info.Tuning)
	}

	b.WriteString(tab)
	b.WriteString("\n\nGenerated by TabGenius")
	return b.String()
}
