package remindertags

import (
	"regexp"
	"strings"
	"thursday/internal/core/domain/reminder"
)

// Matches "[REMIND: <time phrase> | <message>]" in assistant replies.
var reTag = regexp.MustCompile(`(?i)\[REMIND:\s*(.+?)\s*\|\s*(.+?)\s*\]`)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (x *Extractor) Extract(text string) []reminder.Tag {
	matches := reTag.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tags := make([]reminder.Tag, 0, len(matches))
	for _, match := range matches {
		tags = append(tags, reminder.Tag{
			Raw:            match[0],
			TimeExpression: strings.TrimSpace(match[1]),
			Message:        strings.TrimSpace(match[2]),
		})
	}
	return tags
}

// Strip removes every tag and trims the outer whitespace only, so the
// surrounding text keeps its inner spacing.
func (x *Extractor) Strip(text string) string {
	return strings.TrimSpace(reTag.ReplaceAllLiteralString(text, ""))
}
