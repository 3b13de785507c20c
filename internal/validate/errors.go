package validate

import (
	"errors"
	"slices"
	"strings"
)

// Kind classifies a field violation.
type Kind int

const (
	// InvalidFieldShape: a name-like field holds only digits.
	InvalidFieldShape Kind = iota + 1
	// InvalidPhoneFormat: a phone field does not parse as a valid number.
	InvalidPhoneFormat
	// InvalidCharacter: a field holds the record separator or a line break.
	InvalidCharacter
)

func (k Kind) String() string {
	switch k {
	case InvalidFieldShape:
		return "InvalidFieldShape"
	case InvalidPhoneFormat:
		return "InvalidPhoneFormat"
	case InvalidCharacter:
		return "InvalidCharacter"
	default:
		return "Unknown"
	}
}

// Violation is one failed check on one field.
type Violation struct {
	Field  string
	Kind   Kind
	Reason string
}

// Error aggregates every violation found in a record.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	reasons := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		reasons = append(reasons, v.Reason)
	}
	return "validation failed:\n- " + strings.Join(reasons, "\n- ")
}

// Has reports whether the error holds a violation of kind for field.
func (e *Error) Has(field string, kind Kind) bool {
	return slices.ContainsFunc(e.Violations, func(v Violation) bool {
		return v.Field == field && v.Kind == kind
	})
}

// Violations extracts the violations from err, or nil when err is not a
// validation error.
func Violations(err error) []Violation {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Violations
	}
	return nil
}

// sortViolations orders violations by field position, keeping the order
// of checks within a field.
func sortViolations(vs []Violation) {
	slices.SortStableFunc(vs, func(a, b Violation) int {
		return slices.Index(FieldNames, a.Field) - slices.Index(FieldNames, b.Field)
	})
}
