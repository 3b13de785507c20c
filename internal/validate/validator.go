// Package validate checks raw record fields before they reach the store.
//
// Name-like fields are matched against a compiled JSON Schema, phone
// fields are parsed with libphonenumber metadata. Every check runs, so a
// single call reports all problems with a record.
package validate

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jeanpaul/phonebook/internal/phonebook"
)

// Field names as they appear in violations and in the schema.
const (
	FieldLastName      = "last_name"
	FieldFirstName     = "first_name"
	FieldMiddleName    = "middle_name"
	FieldOrganization  = "organization"
	FieldWorkPhone     = "work_phone"
	FieldPersonalPhone = "personal_phone"
)

// FieldNames lists every field name in record order.
var FieldNames = []string{
	FieldLastName, FieldFirstName, FieldMiddleName,
	FieldOrganization, FieldWorkPhone, FieldPersonalPhone,
}

var nameFields = []string{FieldLastName, FieldFirstName, FieldMiddleName, FieldOrganization}

// nameSchema requires every name-like field to be empty or to hold at
// least one non-digit character.
const nameSchema = `{
	"type": "object",
	"properties": {
		"last_name":    {"type": "string", "pattern": "^$|[^\\p{Nd}]"},
		"first_name":   {"type": "string", "pattern": "^$|[^\\p{Nd}]"},
		"middle_name":  {"type": "string", "pattern": "^$|[^\\p{Nd}]"},
		"organization": {"type": "string", "pattern": "^$|[^\\p{Nd}]"}
	},
	"required": ["last_name", "first_name", "middle_name", "organization"]
}`

// Validator validates record fields. It is safe to reuse.
type Validator struct {
	schema *gojsonschema.Schema
	region string
}

// New returns a Validator that parses phone numbers without a leading
// "+" as numbers of region, an ISO 3166-1 alpha-2 code such as "RU".
// An empty region requires every number to carry its country code.
func New(region string) (*Validator, error) {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region != "" && phonenumbers.GetCountryCodeForRegion(region) == 0 {
		return nil, fmt.Errorf("validate: unknown region %q", region)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(nameSchema))
	if err != nil {
		return nil, fmt.Errorf("validate: compile schema: %w", err)
	}
	return &Validator{schema: schema, region: region}, nil
}

// Region returns the default phone region.
func (v *Validator) Region() string { return v.region }

// Validate checks raw field values. On success it returns the trimmed
// fields with phone numbers normalized to E.164. On failure the error is
// a *Error listing every violation.
func (v *Validator) Validate(raw phonebook.Fields) (phonebook.Fields, error) {
	in := trimFields(raw)
	values := fieldMap(in)

	var violations []Violation
	for _, name := range FieldNames {
		if strings.ContainsAny(values[name], "|\r\n") {
			violations = append(violations, Violation{
				Field:  name,
				Kind:   InvalidCharacter,
				Reason: fmt.Sprintf("%s must not contain '|' or line breaks", name),
			})
		}
	}

	shape, err := v.checkNames(values)
	if err != nil {
		return phonebook.Fields{}, err
	}
	violations = append(violations, shape...)

	out := in
	if p, violation, ok := v.checkPhone(FieldWorkPhone, in.WorkPhone); ok {
		out.WorkPhone = p
	} else {
		violations = append(violations, violation)
	}
	if p, violation, ok := v.checkPhone(FieldPersonalPhone, in.PersonalPhone); ok {
		out.PersonalPhone = p
	} else {
		violations = append(violations, violation)
	}

	if len(violations) > 0 {
		sortViolations(violations)
		return phonebook.Fields{}, &Error{Violations: violations}
	}
	return out, nil
}

func (v *Validator) checkNames(values map[string]string) ([]Violation, error) {
	doc := make(map[string]any, len(nameFields))
	for _, name := range nameFields {
		doc[name] = values[name]
	}

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate: run schema: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	var violations []Violation
	for _, desc := range result.Errors() {
		violations = append(violations, Violation{
			Field:  desc.Field(),
			Kind:   InvalidFieldShape,
			Reason: fmt.Sprintf("%s must contain letters, not only digits", desc.Field()),
		})
	}
	return violations, nil
}

func (v *Validator) checkPhone(field, value string) (string, Violation, bool) {
	fail := func(reason string) (string, Violation, bool) {
		return "", Violation{Field: field, Kind: InvalidPhoneFormat, Reason: reason}, false
	}

	if value == "" {
		return fail(fmt.Sprintf("%s is required", field))
	}
	num, err := phonenumbers.Parse(value, v.region)
	if err != nil {
		return fail(fmt.Sprintf("%s is not a phone number: %v", field, err))
	}
	if !phonenumbers.IsValidNumber(num) {
		return fail(fmt.Sprintf("%s is not a valid phone number", field))
	}
	return phonenumbers.Format(num, phonenumbers.E164), Violation{}, true
}

func trimFields(f phonebook.Fields) phonebook.Fields {
	return phonebook.Fields{
		LastName:      strings.TrimSpace(f.LastName),
		FirstName:     strings.TrimSpace(f.FirstName),
		MiddleName:    strings.TrimSpace(f.MiddleName),
		Organization:  strings.TrimSpace(f.Organization),
		WorkPhone:     strings.TrimSpace(f.WorkPhone),
		PersonalPhone: strings.TrimSpace(f.PersonalPhone),
	}
}

func fieldMap(f phonebook.Fields) map[string]string {
	m := make(map[string]string, len(FieldNames))
	for i, value := range f.Values() {
		m[FieldNames[i]] = value
	}
	return m
}
