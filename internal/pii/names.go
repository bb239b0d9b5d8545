package pii

import "regexp"

var (
	// Title followed by one or two capitalized words: "Dr. Jane Doe".
	titledNamePattern = regexp.MustCompile(`\b(Mr|Mrs|Ms|Miss|Dr|Prof)\.?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`)

	// Any two consecutive capitalized words. Noisy, filtered below.
	capitalizedPairPattern = regexp.MustCompile(`\b([A-Z][a-z]+)\s+([A-Z][a-z]+)\b`)
)

// notNames are capitalized pairs common in claim narratives that are not
// person names.
var notNames = map[string]struct{}{
	"First Notice":         {},
	"Notice Loss":          {},
	"Property Damage":      {},
	"Bodily Injury":        {},
	"General Liability":    {},
	"Workers Compensation": {},
	"United States":        {},
	"New York":             {},
	"Los Angeles":          {},
	"San Francisco":        {},
	"San Diego":            {},
	"Police Report":        {},
	"Medical Records":      {},
	"Insurance Company":    {},
}

// detectNames runs the two-pass person name heuristic. Pair matches starting
// inside an already captured titled name are dropped.
func detectNames(text string) []Match {
	names := findAll(text, titledNamePattern, EntityPerson)

	for _, m := range findAll(text, capitalizedPairPattern, EntityPerson) {
		if _, excluded := notNames[m.Text]; excluded {
			continue
		}
		if startsWithin(m.Start, names) {
			continue
		}
		names = append(names, m)
	}
	return names
}

func startsWithin(pos int, spans []Match) bool {
	for _, s := range spans {
		if s.Start <= pos && pos < s.End {
			return true
		}
	}
	return false
}
