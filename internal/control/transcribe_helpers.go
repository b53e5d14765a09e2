package control

import (
	"fmt"
	"strings"

	"whisperlib/internal/whisper"
)

// formatTimestamp renders whisper's 10 ms units as HH:MM:SS.mmm.
func formatTimestamp(t int64) string {
	ms := t * 10
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func formatSegments(segs []whisper.Segment) string {
	var b strings.Builder
	for _, s := range segs {
		fmt.Fprintf(&b, "[%s --> %s] %s\n", formatTimestamp(s.Start), formatTimestamp(s.End), strings.TrimSpace(s.Text))
	}
	return b.String()
}

func joinText(segs []whisper.Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
