package pii

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Match is a candidate sensitive span found by a detector.
type Match struct {
	Start int
	End   int
	Type  EntityType
	Text  string
}

// detector pairs an entity type with its pattern.
type detector struct {
	entity  EntityType
	pattern *regexp.Regexp
}

var (
	ssnPattern           = regexp.MustCompile(`\b\d{3}[-\s]?\d{2}[-\s]?\d{4}\b`)
	phonePattern         = regexp.MustCompile(`\b(?:\+1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	emailPattern         = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	creditCardPattern    = regexp.MustCompile(`\b(?:\d{4}[-\s]?){3}\d{4}\b`)
	ipv4Pattern          = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	datePattern          = regexp.MustCompile(`\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2})\b`)
	claimNumberPattern   = regexp.MustCompile(`(?i)\b(?:CLM|CLAIM|CL)[-#]?\d{6,12}\b`)
	policyNumberPattern  = regexp.MustCompile(`(?i)\b(?:POL|POLICY|PL)[-#]?\d{6,12}\b`)
	driverLicensePattern = regexp.MustCompile(`\b[A-Z]{1,2}\d{6,8}\b`)
	medicalRecordPattern = regexp.MustCompile(`(?i)\b(?:MRN|MR)[-#]?\d{6,10}\b`)
	addressPattern       = regexp.MustCompile(`(?i)\b\d{1,5}\s+[\p{L}\p{N}_\s]{1,30}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Way|Court|Ct|Circle|Cir)\.?\b`)
)

// detectors is the fixed pattern table, in evaluation order.
var detectors = []detector{
	{EntitySSN, ssnPattern},
	{EntityPhone, phonePattern},
	{EntityEmail, emailPattern},
	{EntityCreditCard, creditCardPattern},
	{EntityIPAddress, ipv4Pattern},
	{EntityDateTime, datePattern},
	{EntityClaimNumber, claimNumberPattern},
	{EntityPolicyNumber, policyNumberPattern},
	{EntityDriverLicense, driverLicensePattern},
	{EntityMedicalRecord, medicalRecordPattern},
	{EntityLocation, addressPattern},
}

// findAll returns every non-overlapping match of pattern in text as an
// entity match of the given type.
func findAll(text string, pattern *regexp.Regexp, entity EntityType) []Match {
	var matches []Match
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		if !wordBounded(text, loc[0], loc[1]) {
			continue
		}
		matches = append(matches, Match{
			Start: loc[0],
			End:   loc[1],
			Type:  entity,
			Text:  text[loc[0]:loc[1]],
		})
	}
	return matches
}

// wordBounded rejects matches whose edges run into a non-ASCII letter or
// digit. RE2's \b only knows ASCII word characters, so "Jos" in "José" would
// otherwise be treated as a complete word.
func wordBounded(text string, start, end int) bool {
	if start > 0 {
		first, _ := utf8.DecodeRuneInString(text[start:])
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(first) && prev >= utf8.RuneSelf && isWordRune(prev) {
			return false
		}
	}
	if end < len(text) {
		last, _ := utf8.DecodeLastRuneInString(text[:end])
		next, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(last) && next >= utf8.RuneSelf && isWordRune(next) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
