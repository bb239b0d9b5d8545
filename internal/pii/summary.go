package pii

import (
	"fmt"
	"strings"
)

// Summary renders a short description of what was redacted, for example
// "Redacted: 2 us ssn(s), 1 email address(s)". Entity types appear in the
// order they were first seen in the text.
func Summary(result *Result) string {
	if result == nil || len(result.EntityCounts) == 0 {
		return "No PII detected"
	}

	seen := make(map[EntityType]bool, len(result.EntityCounts))
	parts := make([]string, 0, len(result.EntityCounts))
	for _, m := range result.Mappings {
		if seen[m.EntityType] {
			continue
		}
		seen[m.EntityType] = true
		parts = append(parts, fmt.Sprintf("%d %s(s)", result.EntityCounts[m.EntityType], m.EntityType.Label()))
	}
	return "Redacted: " + strings.Join(parts, ", ")
}
