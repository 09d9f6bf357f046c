package engine

import "strings"

// matchesGroup reports whether title belongs to one of the monitored groups.
// Both sides are normalized; a group matches on equality or when the title
// contains the group name (WhatsApp decorates titles with emoji and message
// counts, so exact equality is too strict).
func matchesGroup(title string, groups []string) bool {
	t := Normalize(strings.TrimSpace(title))
	if t == "" {
		return false
	}
	for _, g := range groups {
		ng := Normalize(strings.TrimSpace(g))
		if ng == "" {
			continue
		}
		if t == ng || strings.Contains(t, ng) {
			return true
		}
	}
	return false
}
