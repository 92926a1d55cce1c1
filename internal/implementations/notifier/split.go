package notifier

import (
	"fmt"
	"strings"
)

// splitMessage cuts text into chunks of at most limit characters, breaking
// at the last newline, else the last space, else hard.
func splitMessage(text string, limit int) []string {
	remaining := []rune(text)
	if len(remaining) <= limit {
		return []string{text}
	}

	chunks := []string{}
	for len(remaining) > 0 {
		if len(remaining) <= limit {
			chunks = append(chunks, string(remaining))
			break
		}

		window := remaining[:limit]
		idx := lastIndex(window, '\n')
		if idx <= 0 {
			idx = lastIndex(window, ' ')
		}
		if idx <= 0 {
			idx = limit
		}

		chunks = append(chunks, string(remaining[:idx]))
		remaining = []rune(strings.TrimLeft(string(remaining[idx:]), "\n"))
	}
	return chunks
}

func lastIndex(runes []rune, r rune) int {
	for ix := len(runes) - 1; ix >= 0; ix-- {
		if runes[ix] == r {
			return ix
		}
	}
	return -1
}

// labelParts prefixes every chunk with "(i/n) " when there is more than one.
func labelParts(chunks []string) []string {
	if len(chunks) < 2 {
		return chunks
	}
	parts := make([]string, 0, len(chunks))
	for ix, chunk := range chunks {
		parts = append(parts, fmt.Sprintf("(%d/%d) %s", ix+1, len(chunks), chunk))
	}
	return parts
}
