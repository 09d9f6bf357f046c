package engine

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// chainPool hands out fresh transformer chains: NFD decompose, strip
// combining marks, case fold. Transformers are stateful and not safe for
// concurrent use, so each caller borrows one.
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			cases.Fold(),
		)
	},
}

// Normalize lower-cases s and strips combining diacritical marks, so that
// "Terça" and "TERCA" compare equal. It never fails: lines the transformer
// rejects fall back to plain lower-casing.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = normalizeLine(line)
	}
	return strings.Join(lines, "\n")
}

func normalizeLine(line string) string {
	if line == "" {
		return ""
	}
	tr := chainPool.Get().(transform.Transformer)
	tr.Reset()
	out, _, err := transform.String(tr, line)
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(line)
	}
	return out
}
