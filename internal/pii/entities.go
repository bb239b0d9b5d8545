package pii

import "strings"

// EntityType identifies a category of sensitive data.
type EntityType string

const (
	EntityPerson        EntityType = "PERSON"
	EntityPhone         EntityType = "PHONE_NUMBER"
	EntityEmail         EntityType = "EMAIL_ADDRESS"
	EntitySSN           EntityType = "US_SSN"
	EntityDriverLicense EntityType = "US_DRIVER_LICENSE"
	EntityCreditCard    EntityType = "CREDIT_CARD"
	EntityIPAddress     EntityType = "IP_ADDRESS"
	EntityDateTime      EntityType = "DATE_TIME"
	EntityLocation      EntityType = "LOCATION"
	EntityPassport      EntityType = "US_PASSPORT"
	EntityMedicalRecord EntityType = "MEDICAL_LICENSE"
	EntityClaimNumber   EntityType = "CLAIM_NUMBER"
	EntityPolicyNumber  EntityType = "POLICY_NUMBER"
)

// shortCodes maps entity types to the prefix used inside placeholders.
var shortCodes = map[EntityType]string{
	EntityPerson:        "PERSON",
	EntityPhone:         "PHONE",
	EntityEmail:         "EMAIL",
	EntitySSN:           "SSN",
	EntityCreditCard:    "CC",
	EntityIPAddress:     "IP",
	EntityDateTime:      "DATE",
	EntityClaimNumber:   "CLAIM_NUM",
	EntityPolicyNumber:  "POLICY_NUM",
	EntityDriverLicense: "DL",
	EntityMedicalRecord: "MRN",
	EntityLocation:      "LOCATION",
}

// ShortCode returns the placeholder prefix for the entity type. Types without
// a registered short code use their own name.
func (e EntityType) ShortCode() string {
	if code, ok := shortCodes[e]; ok {
		return code
	}
	return string(e)
}

// Label returns a lower-case human readable name, e.g. "email address".
func (e EntityType) Label() string {
	return strings.ReplaceAll(strings.ToLower(string(e)), "_", " ")
}

// alwaysRedacted lists operational identifiers that are scrubbed regardless
// of the configured entity set.
var alwaysRedacted = []EntityType{EntityClaimNumber, EntityPolicyNumber}

// DefaultEntities is the entity set enabled when nothing is configured.
func DefaultEntities() []EntityType {
	return []EntityType{
		EntityPerson,
		EntityPhone,
		EntityEmail,
		EntitySSN,
		EntityDriverLicense,
		EntityCreditCard,
		EntityIPAddress,
		EntityDateTime,
		EntityLocation,
		EntityPassport,
		EntityMedicalRecord,
	}
}

var knownEntities = map[EntityType]struct{}{
	EntityPerson: {}, EntityPhone: {}, EntityEmail: {}, EntitySSN: {},
	EntityDriverLicense: {}, EntityCreditCard: {}, EntityIPAddress: {},
	EntityDateTime: {}, EntityLocation: {}, EntityPassport: {},
	EntityMedicalRecord: {}, EntityClaimNumber: {}, EntityPolicyNumber: {},
}

// ParseEntityTypes converts configured names into entity types. Names are
// trimmed and upper-cased; unrecognised names are returned separately so the
// caller can log them.
func ParseEntityTypes(names []string) (types []EntityType, unknown []string) {
	for _, name := range names {
		n := strings.ToUpper(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if _, ok := knownEntities[EntityType(n)]; !ok {
			unknown = append(unknown, name)
			continue
		}
		types = append(types, EntityType(n))
	}
	return types, unknown
}
