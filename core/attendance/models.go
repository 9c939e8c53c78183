package attendance

import (
	"time"

	"github.com/rssbrudrapur/sewabase/core"
)

// historyLimit caps past-attendance listings.
const historyLimit = 30

// Entry is one check-in row.
type Entry struct {
	ID          int       `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	Status      string    `json:"status" db:"status"`
	CheckInTime time.Time `json:"check_in_time" db:"check_in_time"`
	Location    string    `json:"location" db:"location"`
}

// HistoryEntry is the client-facing projection of an Entry.
type HistoryEntry struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
	Time   string    `json:"time"`
}

// Duty is one scheduled sewa assignment.
type Duty struct {
	SewaID       int       `json:"sewaId" db:"sewa_id"`
	DutyName     string    `json:"dutyName" db:"duty_name"`
	AssignedUser string    `json:"-" db:"assigned_user"`
	DateTime     time.Time `json:"dateTime" db:"scheduled_time"`
	Location     string    `json:"location" db:"location"`
	IsUrgent     bool      `json:"isUrgent" db:"is_urgent"`
}

// MarkRequest is the POST /mark-attendance payload.
type MarkRequest struct {
	Username   string `json:"username" validate:"required"`
	Status     string `json:"status" validate:"required"`
	Timestamp  string `json:"timestamp" validate:"required"`
	Location   string `json:"location"`
	TrackingID string `json:"trackingID"`

	checkIn time.Time
}

func (mr *MarkRequest) Validate() error {
	mr.Username = core.CleanString(mr.Username)
	mr.Status = core.CleanString(mr.Status)
	mr.Timestamp = core.CleanString(mr.Timestamp)
	mr.Location = core.CleanString(mr.Location)

	if err := core.Validate.Struct(mr); err != nil {
		return err
	}

	t, err := time.Parse(time.RFC3339, mr.Timestamp)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "timestamp", Error: "must be an RFC 3339 timestamp"})
	}
	mr.checkIn = t.UTC()
	return nil
}

// CheckInTime is only valid after a successful Validate.
func (mr *MarkRequest) CheckInTime() time.Time { return mr.checkIn }

func (mr *MarkRequest) entry() Entry {
	loc := mr.Location
	if loc == "" {
		loc = "Not Provided"
	}
	return Entry{
		Username:    mr.Username,
		Status:      mr.Status,
		CheckInTime: mr.checkIn,
		Location:    loc,
	}
}

// MarkedEvent is published when an attendance entry lands. Delivery is
// at-most-once with no acknowledgment; subscribers may never see it.
type MarkedEvent struct {
	Username string    `json:"username"`
	Time     time.Time `json:"time"`
	Status   string    `json:"status"`
}
