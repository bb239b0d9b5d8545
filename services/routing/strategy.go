package routing

import (
	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

// Strategy maps task types to preferred providers and fixes the fallback
// order. It is read-only once a router is built.
type Strategy struct {
	// Routing holds the provider best suited to each task type. Task types
	// without an entry use Default.
	Routing map[TaskType]providers.Identity

	// Default is the global default provider
	Default providers.Identity

	// FallbackOrder is walked after the selected provider exhausts its retries
	FallbackOrder []providers.Identity
}

// DefaultStrategy returns the built-in routing table. An empty
// defaultProvider means claude.
func DefaultStrategy(defaultProvider providers.Identity) Strategy {
	if defaultProvider == "" {
		defaultProvider = providers.Claude
	}
	return Strategy{
		Routing: map[TaskType]providers.Identity{
			TaskClaimTriage:        providers.Claude,
			TaskQuestionGeneration: providers.Claude,
			TaskCoverageAnalysis:   providers.Claude,
			TaskFileNotes:          providers.OpenAI,
			TaskExtraction:         providers.Gemini,
		},
		Default:       defaultProvider,
		FallbackOrder: providers.Identities(),
	}
}

// Select picks the provider for a call: the preferred provider, then the
// task's routed provider, then the default, then the first available one in
// enumeration order. It reports false when nothing is available.
func (s Strategy) Select(task TaskType, preferred providers.Identity, available func(providers.Identity) bool) (providers.Identity, bool) {
	for _, id := range []providers.Identity{preferred, s.Routing[task], s.Default} {
		if id != "" && available(id) {
			return id, true
		}
	}
	for _, id := range providers.Identities() {
		if available(id) {
			return id, true
		}
	}
	return "", false
}

// FallbackCandidates lists the available providers to try after failed, in
// fallback order.
func (s Strategy) FallbackCandidates(failed providers.Identity, available func(providers.Identity) bool) []providers.Identity {
	order := s.FallbackOrder
	if len(order) == 0 {
		order = providers.Identities()
	}

	out := make([]providers.Identity, 0, len(order))
	for _, id := range order {
		if id == failed || !available(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
