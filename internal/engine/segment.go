package engine

import (
	"regexp"
	"strings"
)

// Block is one self-contained time-slot offering inside a larger message.
// Raw keeps interior lines and blank lines byte-for-byte; only exterior
// blank lines are trimmed, so slot injection stays line-position-stable.
type Block struct {
	Raw   string
	Lines []string
}

func delimiterPattern(delimiter string) *regexp.Regexp {
	// Whole line, surrounding spaces/tabs and case ignored.
	return regexp.MustCompile(`(?mi)^[ \t]*` + regexp.QuoteMeta(delimiter) + `[ \t]*$`)
}

// segmentBlocks splits body on the delimiter line and returns the non-empty
// blocks in document order.
func segmentBlocks(body, delimiter string) []Block {
	parts := delimiterPattern(delimiter).Split(body, -1)
	blocks := make([]Block, 0, len(parts))
	for _, part := range parts {
		raw := trimExteriorBlankLines(part)
		if raw == "" {
			continue
		}
		blocks = append(blocks, Block{Raw: raw, Lines: strings.Split(raw, "\n")})
	}
	return blocks
}

// rejoinBlocks reassembles block texts with a canonical delimiter line.
func rejoinBlocks(raws []string, delimiter string) string {
	return strings.Join(raws, "\n"+delimiter+"\n")
}

// trimExteriorBlankLines drops leading and trailing blank lines, keeping
// interior content untouched.
func trimExteriorBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}
