package export

import (
	"strconv"

	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

// Field is one exportable column. The set is closed; there are no
// stringly-typed lookups into record fields.
type Field string

const (
	FieldBadgeType  Field = "badgeType"
	FieldBadgeNo    Field = "badgeNo"
	FieldPicture    Field = "picture"
	FieldName       Field = "name"
	FieldParentName Field = "parentName"
	FieldGender     Field = "gender"
	FieldPhone      Field = "phone"
	FieldBirthDate  Field = "birthDate"
	FieldAge        Field = "age"
	FieldAddress    Field = "address"
)

// AllFields is the export column allow-list, in display order.
var AllFields = []Field{
	FieldBadgeType,
	FieldBadgeNo,
	FieldPicture,
	FieldName,
	FieldParentName,
	FieldGender,
	FieldPhone,
	FieldBirthDate,
	FieldAge,
	FieldAddress,
}

type fieldDef struct {
	label string
	value func(rec sewadar.Record) string
}

var fieldDefs = map[Field]fieldDef{
	FieldBadgeType:  {"Badge Type", func(r sewadar.Record) string { return r.BadgeType }},
	FieldBadgeNo:    {"Badge No", func(r sewadar.Record) string { return r.BadgeNo }},
	FieldPicture:    {"Picture", func(r sewadar.Record) string { return r.Pic }},
	FieldName:       {"Name", func(r sewadar.Record) string { return r.Name }},
	FieldParentName: {"Father/Husband Name", func(r sewadar.Record) string { return r.ParentName }},
	FieldGender:     {"Gender", func(r sewadar.Record) string { return r.Gender }},
	FieldPhone:      {"Phone", func(r sewadar.Record) string { return r.Phone }},
	FieldBirthDate:  {"Date of Birth", func(r sewadar.Record) string { return r.BirthDate.String() }},
	FieldAge:        {"Age", func(r sewadar.Record) string { return strconv.Itoa(r.Age()) }},
	FieldAddress:    {"Address", func(r sewadar.Record) string { return r.Address }},
}

func (f Field) Valid() bool {
	_, ok := fieldDefs[f]
	return ok
}

func (f Field) Label() string {
	return fieldDefs[f].label
}

func (f Field) Value(rec sewadar.Record) string {
	return fieldDefs[f].value(rec)
}

// ParseFields maps raw column names onto the allow-list, preserving
// order and dropping duplicates.
func ParseFields(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))
	seen := make(map[Field]bool, len(names))
	for _, name := range names {
		f := Field(name)
		if !f.Valid() {
			return nil, ErrUnknownField
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		fields = append(fields, f)
	}
	return fields, nil
}
