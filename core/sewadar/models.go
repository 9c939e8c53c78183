package sewadar

import (
	"errors"
	"io"
	"strings"

	"github.com/rssbrudrapur/sewabase/core"
)

// DefaultPic is substituted whenever a record has no uploaded picture.
// It is served from the uploads directory like any stored image.
const DefaultPic = "image/demo.png"

// Genders
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// Record is the canonical sewadar entity, keyed by badge number.
type Record struct {
	ID         int       `json:"id" db:"id"`
	BadgeType  string    `json:"badge_type" db:"badge_type"`
	BadgeNo    string    `json:"badge_no" db:"badge_no"`
	Pic        string    `json:"pic" db:"pic"`
	Name       string    `json:"name" db:"name"`
	ParentName string    `json:"parent_name" db:"parent_name"`
	Gender     string    `json:"gender" db:"gender"`
	Phone      string    `json:"phone" db:"phone"`
	BirthDate  core.Date `json:"birth_date" db:"birth_date"`
	Address    string    `json:"address" db:"address"`
}

// Age is derived from BirthDate at call time; it is never stored.
func (r Record) Age() int {
	return r.BirthDate.Age()
}

// Image is an uploaded picture accompanying a Create or Update.
type Image struct {
	Content  io.Reader
	Filename string
}

// ImageStore persists uploaded pictures and returns the stored reference.
type ImageStore interface {
	Save(img Image) (string, error)
}

// NewRecord contains information needed to create a new Record.
// Birth is the client-entered day-month-year string; it is parsed once
// during validation and never manipulated as a string afterwards.
type NewRecord struct {
	BadgeType       string `json:"badgeType" form:"badgeType" validate:"required"`
	BadgeNo         string `json:"badgeNo" form:"badgeNo" validate:"required,badge_no"`
	Name            string `json:"name" form:"name" validate:"required"`
	ParentName      string `json:"parent" form:"parent" validate:"required"`
	Gender          string `json:"gender" form:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	Phone           string `json:"phone" form:"phone" validate:"required,phone_in"`
	Birth           string `json:"birth" form:"birth" validate:"required"`
	Address         string `json:"address" form:"address" validate:"required"`
	AdminTrackingID string `json:"adminTrackingID" form:"adminTrackingID"`

	birthDate core.Date
}

func (nr *NewRecord) Validate() error {
	nr.BadgeType = core.CleanString(nr.BadgeType)
	nr.BadgeNo = core.CleanString(nr.BadgeNo)
	nr.Name = core.CleanString(nr.Name)
	nr.ParentName = core.CleanString(nr.ParentName)
	nr.Gender = strings.ToUpper(core.CleanString(nr.Gender))
	nr.Phone = core.CleanString(nr.Phone)
	nr.Birth = core.CleanString(nr.Birth)
	nr.Address = core.CleanString(nr.Address)

	if err := core.Validate.Struct(nr); err != nil {
		return err
	}

	bd, err := core.ParseDate(nr.Birth)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "birth", Error: "must be a valid DD-MM-YYYY date"})
	}
	nr.birthDate = bd
	return nil
}

// BirthDate is only valid after a successful Validate.
func (nr *NewRecord) BirthDate() core.Date { return nr.birthDate }

func (nr *NewRecord) record() Record {
	return Record{
		BadgeType:  nr.BadgeType,
		BadgeNo:    nr.BadgeNo,
		Name:       nr.Name,
		ParentName: nr.ParentName,
		Gender:     nr.Gender,
		Phone:      nr.Phone,
		BirthDate:  nr.birthDate,
		Address:    nr.Address,
	}
}

// UpdateRecord carries a full replacement of a Record's fields. The key
// it applies to is the original badge number captured before the edit
// began, passed separately; BadgeNo may differ from it to rekey.
type UpdateRecord struct {
	NewRecord
}

// DeleteRecord carries the audit fields accompanying a delete.
type DeleteRecord struct {
	Reason     string `json:"reason" form:"reason"`
	TrackingID string `json:"trackingID" form:"trackingID"`
}

// SearchQuery is a single-field substring search.
type SearchQuery struct {
	Field string `query:"searchBy"`
	Term  string `query:"searchTerm"`
}

var searchFields = map[string]bool{
	"badge_no":    true,
	"name":        true,
	"parent_name": true,
	"phone":       true,
	"address":     true,
}

func (q *SearchQuery) Validate() error {
	q.Field = core.CleanString(q.Field)
	q.Term = core.CleanString(q.Term)
	if !searchFields[q.Field] {
		return core.NewValidationError(
			errors.New("invalid search criteria"),
			core.FieldError{Field: "searchBy", Error: "must be one of badge_no, name, parent_name, phone, address"},
		)
	}
	return nil
}

// Ordering selects the server-side sort for record listings.
type Ordering struct {
	Field     string `query:"sort"`
	Direction string `query:"direction"`
}

var sortFields = map[string]bool{
	"badge_no":   true,
	"name":       true,
	"birth_date": true,
}

// Normalize maps the ordering onto the column allow-list. Unrecognized
// fields fall back to the default (name ascending) rather than erroring;
// unrecognized directions are dropped.
func (o Ordering) Normalize() Ordering {
	norm := Ordering{Field: "name", Direction: "ASC"}
	if sortFields[o.Field] {
		norm.Field = o.Field
	}
	dir := strings.ToUpper(core.CleanString(o.Direction))
	if dir == "DESC" {
		norm.Direction = dir
	}
	return norm
}
