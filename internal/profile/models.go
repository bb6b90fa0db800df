package profile

import "strings"

// Field names a piece of personal data required before checkout.
type Field string

const (
	FieldLegalName         Field = "legal_name"
	FieldIdentityDocument  Field = "identity_document"
	FieldPhoneVerification Field = "phone_verification"
	FieldDateOfBirth       Field = "date_of_birth"
	FieldGender            Field = "gender"
)

var fieldLabels = map[Field]string{
	FieldLegalName:         "legal name",
	FieldIdentityDocument:  "valid identity document",
	FieldPhoneVerification: "phone verification",
	FieldDateOfBirth:       "date of birth",
	FieldGender:            "gender",
}

// Label is the human wording used in checkout messages.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return strings.ReplaceAll(string(f), "_", " ")
}

type IdentityDocument struct {
	Kind   string `json:"kind"`
	Number string `json:"number"`
	Valid  bool   `json:"valid"`
}

// CustomerProfile is the backend's extended customer record. Complete is
// computed server side.
type CustomerProfile struct {
	SubjectID     string             `json:"subject_id"`
	Email         string             `json:"email"`
	LegalName     string             `json:"legal_name"`
	Documents     []IdentityDocument `json:"documents"`
	Phone         string             `json:"phone"`
	PhoneVerified bool               `json:"phone_verified"`
	DateOfBirth   string             `json:"date_of_birth"`
	Gender        string             `json:"gender"`
	Complete      bool               `json:"complete"`
}

// MissingFields lists what blocks checkout, in a stable order. A profile
// the server marks complete has none.
func (p *CustomerProfile) MissingFields() []Field {
	if p == nil {
		return []Field{FieldLegalName, FieldIdentityDocument, FieldPhoneVerification, FieldDateOfBirth, FieldGender}
	}
	if p.Complete {
		return nil
	}

	var missing []Field
	if strings.TrimSpace(p.LegalName) == "" {
		missing = append(missing, FieldLegalName)
	}
	if !p.hasValidDocument() {
		missing = append(missing, FieldIdentityDocument)
	}
	if strings.TrimSpace(p.Phone) == "" || !p.PhoneVerified {
		missing = append(missing, FieldPhoneVerification)
	}
	if strings.TrimSpace(p.DateOfBirth) == "" {
		missing = append(missing, FieldDateOfBirth)
	}
	if strings.TrimSpace(p.Gender) == "" {
		missing = append(missing, FieldGender)
	}
	return missing
}

// IsComplete trusts the server flag, and otherwise requires every field.
func (p *CustomerProfile) IsComplete() bool {
	return len(p.MissingFields()) == 0
}

func (p *CustomerProfile) hasValidDocument() bool {
	for _, d := range p.Documents {
		if d.Valid && strings.TrimSpace(d.Number) != "" {
			return true
		}
	}
	return false
}

// Labels turns fields into message wording.
func Labels(fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Label())
	}
	return out
}
