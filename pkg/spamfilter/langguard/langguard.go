// Package langguard records the language a model was trained on and flags
// inputs written in another one.
package langguard

import (
	"sort"

	"github.com/abadojack/whatlanggo"
)

// MinSampleRunes is the shortest text worth running detection on.
const MinSampleRunes = 20

// Detect returns the ISO 639-1 code most often reliably detected across
// samples, or "" when no sample gives a reliable answer.
func Detect(samples []string) string {
	counts := make(map[string]int)
	for _, s := range samples {
		if code, ok := detect(s); ok {
			counts[code]++
		}
	}
	if len(counts) == 0 {
		return ""
	}

	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})
	return codes[0]
}

// Mismatch reports whether text is reliably detected as a language other
// than trained. An empty trained language never mismatches.
func Mismatch(trained, text string) (detected string, mismatch bool) {
	if trained == "" {
		return "", false
	}
	code, ok := detect(text)
	if !ok {
		return "", false
	}
	return code, code != trained
}

func detect(text string) (string, bool) {
	if len([]rune(text)) < MinSampleRunes {
		return "", false
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "", false
	}
	code := info.Lang.Iso6391()
	return code, code != ""
}
