package notifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitMessage(t *testing.T) {
	cases := []struct {
		id       string
		text     string
		limit    int
		expected []string
	}{
		{
			id:       "short",
			text:     "hello",
			limit:    10,
			expected: []string{"hello"},
		},
		{
			id:       "exact-limit",
			text:     "0123456789",
			limit:    10,
			expected: []string{"0123456789"},
		},
		{
			id:       "newline-preferred",
			text:     "first line\nsecond line",
			limit:    15,
			expected: []string{"first line", "second line"},
		},
		{
			id:       "space-fallback-keeps-leading-space",
			text:     "aaaa bbbb cccc",
			limit:    10,
			expected: []string{"aaaa bbbb", " cccc"},
		},
		{
			id:       "hard-cut",
			text:     "abcdefghijklmnopqrstuvwxyz",
			limit:    10,
			expected: []string{"abcdefghij", "klmnopqrst", "uvwxyz"},
		},
		{
			id:       "counts-characters-not-bytes",
			text:     strings.Repeat("é", 12),
			limit:    10,
			expected: []string{strings.Repeat("é", 10), strings.Repeat("é", 2)},
		},
		{
			id:       "leading-separator-is-not-a-break-point",
			text:     " abcdefghijkl",
			limit:    10,
			expected: []string{" abcdefghi", "jkl"},
		},
	}

	for _, testcase := range cases {
		tc := testcase
		t.Run(tc.id, func(t *testing.T) {
			r := require.New(t)
			chunks := splitMessage(tc.text, tc.limit)
			r.Equal(tc.expected, chunks)
			for _, chunk := range chunks {
				r.LessOrEqual(len([]rune(chunk)), tc.limit)
			}
		})
	}
}

func TestLabelParts(t *testing.T) {
	r := require.New(t)
	r.Equal([]string{"only"}, labelParts([]string{"only"}))
	r.Equal([]string{"(1/3) a", "(2/3) b", "(3/3) c"}, labelParts([]string{"a", "b", "c"}))
}
