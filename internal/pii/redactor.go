package pii

import (
	"fmt"
	"sort"
	"strings"
)

// Mapping links a placeholder back to the original span it replaced. Mappings
// live for a single Redact call and are never sent to external services.
type Mapping struct {
	Original    string     `json:"-"`
	Placeholder string     `json:"placeholder"`
	EntityType  EntityType `json:"entity_type"`
	Start       int        `json:"start"`
	End         int        `json:"end"`
}

// Result is the outcome of a Redact call. Mappings are ordered by their
// position in the original text.
type Result struct {
	RedactedText string
	Mappings     []Mapping
	EntityCounts map[EntityType]int
}

// HasRedactions reports whether at least one span was replaced.
func (r *Result) HasRedactions() bool {
	return len(r.Mappings) > 0
}

// Config controls which entity types a Redactor scrubs.
type Config struct {
	Enabled  bool
	Entities []EntityType
}

// DefaultConfig returns an enabled configuration with the default entity set.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Entities: DefaultEntities(),
	}
}

// Redactor replaces sensitive spans with numbered placeholders. It holds no
// mutable state and is safe for concurrent use.
type Redactor struct {
	enabled  bool
	entities map[EntityType]struct{}
}

// New creates a Redactor for the given configuration.
func New(cfg Config) *Redactor {
	entities := make(map[EntityType]struct{}, len(cfg.Entities)+len(alwaysRedacted))
	for _, e := range cfg.Entities {
		entities[e] = struct{}{}
	}
	for _, e := range alwaysRedacted {
		entities[e] = struct{}{}
	}
	return &Redactor{
		enabled:  cfg.Enabled,
		entities: entities,
	}
}

// Enabled reports whether the redactor modifies its input.
func (r *Redactor) Enabled() bool {
	return r.enabled
}

// Entities returns the active entity types in a stable order.
func (r *Redactor) Entities() []EntityType {
	out := make([]EntityType, 0, len(r.entities))
	for e := range r.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Redactor) active(e EntityType) bool {
	_, ok := r.entities[e]
	return ok
}

// Redact detects sensitive spans in text and replaces each with a placeholder
// of the form [<SHORT>_<N>]. Counters start at 1 for every call.
func (r *Redactor) Redact(text string) *Result {
	result := &Result{
		RedactedText: text,
		EntityCounts: map[EntityType]int{},
	}
	if !r.enabled || text == "" {
		return result
	}

	accepted := resolveOverlaps(r.detect(text))
	if len(accepted) == 0 {
		return result
	}

	// accepted is in descending start order; number placeholders left to right.
	counters := make(map[EntityType]int)
	mappings := make([]Mapping, len(accepted))
	for i := len(accepted) - 1; i >= 0; i-- {
		m := accepted[i]
		counters[m.Type]++
		mappings[len(accepted)-1-i] = Mapping{
			Original:    m.Text,
			Placeholder: fmt.Sprintf("[%s_%d]", m.Type.ShortCode(), counters[m.Type]),
			EntityType:  m.Type,
			Start:       m.Start,
			End:         m.End,
		}
	}

	// Replace from the end so earlier offsets stay valid.
	redacted := text
	for i := len(mappings) - 1; i >= 0; i-- {
		m := mappings[i]
		redacted = redacted[:m.Start] + m.Placeholder + redacted[m.End:]
	}

	result.RedactedText = redacted
	result.Mappings = mappings
	for e, n := range counters {
		result.EntityCounts[e] = n
	}
	return result
}

// detect collects candidate spans from every active detector.
func (r *Redactor) detect(text string) []Match {
	var candidates []Match
	for _, d := range detectors {
		if !r.active(d.entity) {
			continue
		}
		candidates = append(candidates, findAll(text, d.pattern, d.entity)...)
	}
	if r.active(EntityPerson) {
		candidates = append(candidates, detectNames(text)...)
	}
	return candidates
}

// resolveOverlaps sorts candidates by start offset, highest first, and keeps
// each one that does not intersect an already kept span. Scanning from the
// end means the textually later candidate wins a conflict regardless of
// length or type. Callers rely on this exact tie-break.
func resolveOverlaps(candidates []Match) []Match {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start > candidates[j].Start
	})

	kept := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		overlaps := false
		for _, k := range kept {
			if c.Start < k.End && k.Start < c.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}
	return kept
}

// Restore substitutes original values back for their placeholders. Mappings
// are replayed in descending placeholder order so [PERSON_1] never clobbers a
// prefix of [PERSON_10].
//
// The restored text is for local use only and must never be sent to a
// provider.
func Restore(redactedText string, mappings []Mapping) string {
	ordered := make([]Mapping, len(mappings))
	copy(ordered, mappings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Placeholder > ordered[j].Placeholder
	})

	restored := redactedText
	for _, m := range ordered {
		restored = strings.ReplaceAll(restored, m.Placeholder, m.Original)
	}
	return restored
}
