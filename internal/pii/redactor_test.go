package pii

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactor_Redact(t *testing.T) {
	redactor := New(DefaultConfig())

	tests := []struct {
		name     string
		input    string
		expected string
		counts   map[EntityType]int
	}{
		{
			name:     "empty text",
			input:    "",
			expected: "",
			counts:   map[EntityType]int{},
		},
		{
			name:     "no PII",
			input:    "The weather is nice today.",
			expected: "The weather is nice today.",
			counts:   map[EntityType]int{},
		},
		{
			name:     "ssn",
			input:    "SSN is 123-45-6789",
			expected: "SSN is [SSN_1]",
			counts:   map[EntityType]int{EntitySSN: 1},
		},
		{
			name:     "two phones numbered left to right",
			input:    "Call 555-111-1111 or 555-222-2222",
			expected: "Call [PHONE_1] or [PHONE_2]",
			counts:   map[EntityType]int{EntityPhone: 2},
		},
		{
			name:     "email",
			input:    "Email: john.doe@example.com",
			expected: "Email: [EMAIL_1]",
			counts:   map[EntityType]int{EntityEmail: 1},
		},
		{
			name:     "email with plus tag",
			input:    "Email: user+tag@example.com",
			expected: "Email: [EMAIL_1]",
			counts:   map[EntityType]int{EntityEmail: 1},
		},
		{
			name:     "claim number",
			input:    "Claim CLM-123456789 is pending",
			expected: "Claim [CLAIM_NUM_1] is pending",
			counts:   map[EntityType]int{EntityClaimNumber: 1},
		},
		{
			name:     "policy number",
			input:    "Policy POL-987654321 expires soon",
			expected: "Policy [POLICY_NUM_1] expires soon",
			counts:   map[EntityType]int{EntityPolicyNumber: 1},
		},
		{
			name:     "date",
			input:    "Date of loss: 12/25/2024",
			expected: "Date of loss: [DATE_1]",
			counts:   map[EntityType]int{EntityDateTime: 1},
		},
		{
			name:     "ip address",
			input:    "Logged from IP 192.168.1.100",
			expected: "Logged from IP [IP_1]",
			counts:   map[EntityType]int{EntityIPAddress: 1},
		},
		{
			name:     "credit card",
			input:    "Card 4111 1111 1111 1111 on file",
			expected: "Card [CC_1] on file",
			counts:   map[EntityType]int{EntityCreditCard: 1},
		},
		{
			name:     "titled name",
			input:    "Mr. John Smith reported the incident",
			expected: "[PERSON_1] reported the incident",
			counts:   map[EntityType]int{EntityPerson: 1},
		},
		{
			name:     "doctor",
			input:    "Dr. Jane Doe examined the claimant",
			expected: "[PERSON_1] examined the claimant",
			counts:   map[EntityType]int{EntityPerson: 1},
		},
		{
			name:     "excluded capitalized pairs",
			input:    "Filed a Police Report in New York",
			expected: "Filed a Police Report in New York",
			counts:   map[EntityType]int{},
		},
		{
			name:     "multiple types",
			input:    "John Smith (SSN: 123-45-6789) called at 555-123-4567 regarding claim CLM-123456",
			expected: "[PERSON_1] (SSN: [SSN_1]) called at [PHONE_1] regarding claim [CLAIM_NUM_1]",
			counts: map[EntityType]int{
				EntityPerson:      1,
				EntitySSN:         1,
				EntityPhone:       1,
				EntityClaimNumber: 1,
			},
		},
		{
			name:     "non-ASCII name is left alone",
			input:    "Contact José at 555-123-4567",
			expected: "Contact José at [PHONE_1]",
			counts:   map[EntityType]int{EntityPhone: 1},
		},
		{
			name:     "later overlapping candidate wins",
			input:    "Loss at 123 Main Street today",
			expected: "Loss at 123 [PERSON_1] today",
			counts:   map[EntityType]int{EntityPerson: 1},
		},
		{
			name:     "street with accented name",
			input:    "Lives at 123 Müller Street",
			expected: "Lives at [LOCATION_1]",
			counts:   map[EntityType]int{EntityLocation: 1},
		},
		{
			name:     "multi word street with accented name",
			input:    "Lives at 45 Calle José Street",
			expected: "Lives at [LOCATION_1]",
			counts:   map[EntityType]int{EntityLocation: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := redactor.Redact(tt.input)

			assert.Equal(t, tt.expected, result.RedactedText)
			assert.Equal(t, tt.counts, result.EntityCounts)
			assertNoOverlap(t, result.Mappings)
			assert.Equal(t, tt.input, Restore(result.RedactedText, result.Mappings))
		})
	}
}

func TestRedactor_SingleMappingShape(t *testing.T) {
	result := New(DefaultConfig()).Redact("SSN is 123-45-6789")

	require.Len(t, result.Mappings, 1)
	assert.Equal(t, Mapping{
		Original:    "123-45-6789",
		Placeholder: "[SSN_1]",
		EntityType:  EntitySSN,
		Start:       7,
		End:         18,
	}, result.Mappings[0])
}

func TestRedactor_MappingsInTextOrder(t *testing.T) {
	text := "Call 555-111-1111 or 555-222-2222"
	result := New(DefaultConfig()).Redact(text)

	require.Len(t, result.Mappings, 2)
	assert.Equal(t, "555-111-1111", result.Mappings[0].Original)
	assert.Equal(t, "[PHONE_1]", result.Mappings[0].Placeholder)
	assert.Equal(t, "555-222-2222", result.Mappings[1].Original)
	assert.Equal(t, "[PHONE_2]", result.Mappings[1].Placeholder)
	assert.Less(t, result.Mappings[0].Start, result.Mappings[1].Start)
}

func TestRedactor_Disabled(t *testing.T) {
	redactor := New(Config{Enabled: false, Entities: DefaultEntities()})
	text := "SSN: 123-45-6789, Phone: 555-123-4567"

	result := redactor.Redact(text)

	assert.False(t, redactor.Enabled())
	assert.Equal(t, text, result.RedactedText)
	assert.Empty(t, result.Mappings)
	assert.False(t, result.HasRedactions())
}

func TestRedactor_ClaimAndPolicyAlwaysRedacted(t *testing.T) {
	redactor := New(Config{Enabled: true, Entities: []EntityType{EntityEmail}})

	result := redactor.Redact("CLM-123456789 under POL-987654321, SSN 123-45-6789")

	assert.Equal(t, "[CLAIM_NUM_1] under [POLICY_NUM_1], SSN 123-45-6789", result.RedactedText)
	assert.Contains(t, redactor.Entities(), EntityClaimNumber)
	assert.Contains(t, redactor.Entities(), EntityPolicyNumber)
}

func TestRedactor_EntitySelection(t *testing.T) {
	t.Run("person disabled keeps names", func(t *testing.T) {
		redactor := New(Config{Enabled: true, Entities: []EntityType{EntityPhone}})
		result := redactor.Redact("Mr. John Smith at 555-123-4567")
		assert.Equal(t, "Mr. John Smith at [PHONE_1]", result.RedactedText)
	})

	t.Run("location only", func(t *testing.T) {
		redactor := New(Config{Enabled: true, Entities: []EntityType{EntityLocation}})
		result := redactor.Redact("Loss at 123 Main Street today")
		assert.Equal(t, "Loss at [LOCATION_1] today", result.RedactedText)
	})
}

func TestRedactor_EntityCounts(t *testing.T) {
	result := New(DefaultConfig()).Redact("SSN: 123-45-6789 and 987-65-4321")

	assert.Equal(t, 2, result.EntityCounts[EntitySSN])
	assert.Equal(t, "SSN: [SSN_1] and [SSN_2]", result.RedactedText)
}

func TestRedactor_PlaceholdersUnique(t *testing.T) {
	text := "Contact " + strings.Repeat("555-123-4567 ", 100)
	result := New(DefaultConfig()).Redact(text)

	require.Len(t, result.Mappings, 100)
	seen := make(map[string]bool)
	for _, m := range result.Mappings {
		assert.False(t, seen[m.Placeholder], "duplicate placeholder %s", m.Placeholder)
		seen[m.Placeholder] = true
	}
	assert.Equal(t, "[PHONE_100]", result.Mappings[99].Placeholder)
	assert.Equal(t, text, Restore(result.RedactedText, result.Mappings))
}

func TestRedactor_CountersArePerCall(t *testing.T) {
	redactor := New(DefaultConfig())

	var wg sync.WaitGroup
	results := make([]string, 50)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = redactor.Redact(fmt.Sprintf("Call 555-123-%04d now", i)).RedactedText
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "Call [PHONE_1] now", r)
	}
}

func TestRestore(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		original := "Contact John at 555-123-4567"
		result := New(DefaultConfig()).Redact(original)

		restored := Restore(result.RedactedText, result.Mappings)
		assert.Equal(t, original, restored)
	})

	t.Run("longer placeholders are replaced first", func(t *testing.T) {
		mappings := []Mapping{
			{Original: "Alice Able", Placeholder: "[PERSON_1]", EntityType: EntityPerson},
			{Original: "Jack Judd", Placeholder: "[PERSON_10]", EntityType: EntityPerson},
		}

		restored := Restore("[PERSON_1] met [PERSON_10]", mappings)
		assert.Equal(t, "Alice Able met Jack Judd", restored)
	})

	t.Run("no mappings", func(t *testing.T) {
		assert.Equal(t, "unchanged", Restore("unchanged", nil))
	})
}

func TestResolveOverlaps(t *testing.T) {
	candidates := []Match{
		{Start: 0, End: 10, Type: EntityLocation},
		{Start: 5, End: 12, Type: EntityPerson},
		{Start: 20, End: 25, Type: EntityPhone},
		{Start: 20, End: 30, Type: EntitySSN},
	}

	kept := resolveOverlaps(candidates)

	require.Len(t, kept, 2)
	// Equal starts keep detector order, so the first candidate at 20 wins.
	assert.Equal(t, EntityPhone, kept[0].Type)
	assert.Equal(t, EntityPerson, kept[1].Type)
}

func assertNoOverlap(t *testing.T, mappings []Mapping) {
	t.Helper()
	for i := 1; i < len(mappings); i++ {
		assert.LessOrEqual(t, mappings[i-1].End, mappings[i].Start, "mappings %d and %d overlap", i-1, i)
	}
}
