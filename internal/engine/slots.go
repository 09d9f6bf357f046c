package engine

import "strings"

// slotLineIndices returns the indices of lines whose trimmed content is
// exactly one of the empty-marker glyphs. A line carrying a marker plus a
// name ("- João Silva") is a taken slot, not an empty one.
func slotLineIndices(lines []string, markers []string) []int {
	var idx []int
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, m := range markers {
			if trimmed == m {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

// containsClaimant reports whether the normalized block already carries the
// claimant's name, meaning the block must be skipped to avoid a duplicate
// self-entry.
func containsClaimant(normBlock, normClaimant string) bool {
	if normClaimant == "" {
		return false
	}
	return strings.Contains(normBlock, normClaimant)
}

// injectClaimant rewrites the slot line at idx to "<marker> <claimant>",
// leaving every other line, including other empty slots, untouched.
func injectClaimant(lines []string, idx int, claimant string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	marker := strings.TrimSpace(out[idx])
	out[idx] = marker + " " + strings.TrimSpace(claimant)
	return out
}
