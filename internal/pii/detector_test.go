package pii

import (
	"testing"
)

func TestDetectors(t *testing.T) {
	tests := []struct {
		name    string
		entity  EntityType
		input   string
		matches []string
	}{
		{"ssn dashed", EntitySSN, "ssn 123-45-6789", []string{"123-45-6789"}},
		{"ssn spaced", EntitySSN, "ssn 123 45 6789", []string{"123 45 6789"}},
		{"phone spaced", EntityPhone, "call 555 123 4567", []string{"555 123 4567"}},
		{"phone dotted", EntityPhone, "call 555.123.4567", []string{"555.123.4567"}},
		{"iso date", EntityDateTime, "on 2024-03-15", []string{"2024-03-15"}},
		{"claim with hash", EntityClaimNumber, "ref claim#12345678", []string{"claim#12345678"}},
		{"claim too short", EntityClaimNumber, "CLM-12345", nil},
		{"policy lower case", EntityPolicyNumber, "pol-1234567", []string{"pol-1234567"}},
		{"driver license", EntityDriverLicense, "DL D1234567 issued", []string{"D1234567"}},
		{"medical record", EntityMedicalRecord, "MRN-00123456", []string{"MRN-00123456"}},
		{"street address", EntityLocation, "lives at 42 Oak Lane.", []string{"42 Oak Lane"}},
		{"ipv4", EntityIPAddress, "from 10.0.0.1", []string{"10.0.0.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pattern *detector
			for i := range detectors {
				if detectors[i].entity == tt.entity {
					pattern = &detectors[i]
				}
			}
			if pattern == nil {
				t.Fatalf("no detector for %s", tt.entity)
			}

			got := findAll(tt.input, pattern.pattern, pattern.entity)
			if len(got) != len(tt.matches) {
				t.Fatalf("findAll() returned %d matches, want %d (%v)", len(got), len(tt.matches), got)
			}
			for i, m := range got {
				if m.Text != tt.matches[i] {
					t.Errorf("match %d = %q, want %q", i, m.Text, tt.matches[i])
				}
				if tt.input[m.Start:m.End] != m.Text {
					t.Errorf("match %d offsets [%d:%d] do not cover %q", i, m.Start, m.End, m.Text)
				}
			}
		})
	}
}

func TestDetectNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"titled full name", "Mrs. Ann Lee called", []string{"Mrs. Ann Lee"}},
		{"titled single name", "Prof Adams wrote", []string{"Prof Adams"}},
		{"plain pair", "spoke with Maria Lopez today", []string{"Maria Lopez"}},
		{"excluded pair", "Bodily Injury claim", nil},
		{"pair inside titled name is skipped", "Dr. Jane Doe", []string{"Dr. Jane Doe"}},
		{"single capital", "Witness refused", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectNames(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("detectNames() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].Text != tt.want[i] {
					t.Errorf("name %d = %q, want %q", i, got[i].Text, tt.want[i])
				}
			}
		})
	}
}

func TestWordBounded(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end int
		want       bool
	}{
		{"ascii neighbours", "a Jos b", 2, 5, true},
		{"accented letter after", "José", 0, 3, false},
		{"accented letter before", "éAbc", 2, 5, false},
		{"punctuation after", "Jos!", 0, 3, true},
		{"whole string", "Jos", 0, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wordBounded(tt.text, tt.start, tt.end); got != tt.want {
				t.Errorf("wordBounded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseEntityTypes(t *testing.T) {
	types, unknown := ParseEntityTypes([]string{"person", " US_SSN ", "", "NOT_A_TYPE"})

	if len(types) != 2 || types[0] != EntityPerson || types[1] != EntitySSN {
		t.Errorf("ParseEntityTypes() types = %v", types)
	}
	if len(unknown) != 1 || unknown[0] != "NOT_A_TYPE" {
		t.Errorf("ParseEntityTypes() unknown = %v", unknown)
	}
}

func TestSummary(t *testing.T) {
	redactor := New(DefaultConfig())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"nothing found", "The weather is nice today.", "No PII detected"},
		{"two types", "SSN: 123-45-6789, Phone: 555-123-4567", "Redacted: 1 us ssn(s), 1 phone number(s)"},
		{"repeated type", "SSN: 123-45-6789 and 987-65-4321", "Redacted: 2 us ssn(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(redactor.Redact(tt.input)); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := Summary(nil); got != "No PII detected" {
		t.Errorf("Summary(nil) = %q", got)
	}
}
