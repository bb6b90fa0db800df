package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func completeProfile() *CustomerProfile {
	return &CustomerProfile{
		SubjectID:     "u1",
		Email:         "jane@example.com",
		LegalName:     "Jane Doe",
		Documents:     []IdentityDocument{{Kind: "passport", Number: "X123", Valid: true}},
		Phone:         "+15550100",
		PhoneVerified: true,
		DateOfBirth:   "1990-04-01",
		Gender:        "female",
	}
}

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *CustomerProfile)
		want   []Field
	}{
		{"all present", func(*CustomerProfile) {}, nil},
		{"unverified phone", func(p *CustomerProfile) { p.PhoneVerified = false }, []Field{FieldPhoneVerification}},
		{"no phone", func(p *CustomerProfile) { p.Phone = "" }, []Field{FieldPhoneVerification}},
		{"blank legal name", func(p *CustomerProfile) { p.LegalName = "  " }, []Field{FieldLegalName}},
		{"invalid document", func(p *CustomerProfile) { p.Documents[0].Valid = false }, []Field{FieldIdentityDocument}},
		{"document without number", func(p *CustomerProfile) { p.Documents[0].Number = "" }, []Field{FieldIdentityDocument}},
		{"several in order", func(p *CustomerProfile) {
			p.Gender = ""
			p.DateOfBirth = ""
			p.PhoneVerified = false
		}, []Field{FieldPhoneVerification, FieldDateOfBirth, FieldGender}},
		{"server flag wins", func(p *CustomerProfile) {
			p.Complete = true
			p.Gender = ""
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completeProfile()
			tt.mutate(p)
			assert.Equal(t, tt.want, p.MissingFields())
			assert.Equal(t, len(tt.want) == 0, p.IsComplete())
		})
	}
}

func TestMissingFields_NilProfileMissesEverything(t *testing.T) {
	var p *CustomerProfile
	assert.Len(t, p.MissingFields(), 5)
	assert.False(t, p.IsComplete())
}

func TestLabels(t *testing.T) {
	assert.Equal(t,
		[]string{"legal name", "phone verification", "custom field"},
		Labels([]Field{FieldLegalName, FieldPhoneVerification, Field("custom_field")}),
	)
}
