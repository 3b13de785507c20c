package phonebook

import (
	"errors"
	"strconv"
	"strings"
)

// Separator joins the fields of a serialized record.
const Separator = "|"

// FieldCount is the number of fields in a serialized record, id included.
const FieldCount = 7

// ErrMalformedLine is returned by ParseRecord for lines that are not a
// serialized record.
var ErrMalformedLine = errors.New("phonebook: malformed line")

// Fields are the six user-editable values of a record.
type Fields struct {
	LastName      string `json:"last_name" yaml:"last_name"`
	FirstName     string `json:"first_name" yaml:"first_name"`
	MiddleName    string `json:"middle_name" yaml:"middle_name"`
	Organization  string `json:"organization" yaml:"organization"`
	WorkPhone     string `json:"work_phone" yaml:"work_phone"`
	PersonalPhone string `json:"personal_phone" yaml:"personal_phone"`
}

// Values returns the fields in serialization order.
func (f Fields) Values() []string {
	return []string{f.LastName, f.FirstName, f.MiddleName, f.Organization, f.WorkPhone, f.PersonalPhone}
}

// Labels names the fields for display, in serialization order.
var Labels = []string{
	"Фамилия",
	"Имя",
	"Отчество",
	"Организация",
	"Телефон рабочий",
	"Телефон личный",
}

// FieldsFromValues is the inverse of Fields.Values. Missing values are
// left empty.
func FieldsFromValues(values []string) Fields {
	v := make([]string, 6)
	copy(v, values)
	return Fields{
		LastName:      v[0],
		FirstName:     v[1],
		MiddleName:    v[2],
		Organization:  v[3],
		WorkPhone:     v[4],
		PersonalPhone: v[5],
	}
}

// Record is one phonebook entry.
type Record struct {
	ID int
	Fields
}

// String returns the serialized form: id|last|first|middle|org|work|personal.
func (r Record) String() string {
	return strconv.Itoa(r.ID) + Separator + strings.Join(r.Fields.Values(), Separator)
}

// ParseRecord parses a serialized line. The line must have exactly
// FieldCount fields and a positive integer id.
func ParseRecord(line string) (Record, error) {
	parts := strings.Split(strings.TrimSpace(line), Separator)
	if len(parts) != FieldCount {
		return Record{}, ErrMalformedLine
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil || id < 1 {
		return Record{}, ErrMalformedLine
	}
	return Record{
		ID: id,
		Fields: Fields{
			LastName:      parts[1],
			FirstName:     parts[2],
			MiddleName:    parts[3],
			Organization:  parts[4],
			WorkPhone:     parts[5],
			PersonalPhone: parts[6],
		},
	}, nil
}

// lineID returns the id of a stored line. Stored lines were checked on
// load or built by the store, so a parse failure yields 0.
func lineID(line string) int {
	head, _, _ := strings.Cut(line, Separator)
	id, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return id
}
