package requests

import (
	"errors"
	"strings"
	"time"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

// Request types
const (
	TypeAdd    = "ADD"
	TypeUpdate = "UPDATE"
	TypeDelete = "DELETE"
)

// Request statuses
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Request is one queued record change awaiting admin review. Data
// holds the full requested record state; for DELETE only the target
// key matters.
type Request struct {
	ID            int            `json:"request_id" db:"request_id"`
	TrackingID    string         `json:"tracking_id" db:"tracking_id"`
	Type          string         `json:"request_type" db:"request_type"`
	TargetBadgeNo string         `json:"target_badge_no" db:"target_badge_no"`
	Data          sewadar.Record `json:"requested_data" db:"-"`
	Requester     string         `json:"requester_username" db:"requester_username"`
	Reason        string         `json:"submission_reason" db:"submission_reason"`
	Status        string         `json:"request_status" db:"request_status"`
	SubmittedAt   time.Time      `json:"submission_timestamp" db:"submission_timestamp"` // UTC
}

// Summary is the list projection of a Request, without the requested
// record payload.
type Summary struct {
	ID            int       `json:"request_id"`
	TrackingID    string    `json:"tracking_id"`
	Type          string    `json:"request_type"`
	TargetBadgeNo string    `json:"target_badge_no"`
	Requester     string    `json:"requester_username"`
	Reason        string    `json:"submission_reason"`
	Status        string    `json:"request_status"`
	SubmittedAt   time.Time `json:"submission_timestamp"`
}

func (r Request) Summary() Summary {
	return Summary{
		ID:            r.ID,
		TrackingID:    r.TrackingID,
		Type:          r.Type,
		TargetBadgeNo: r.TargetBadgeNo,
		Requester:     r.Requester,
		Reason:        r.Reason,
		Status:        r.Status,
		SubmittedAt:   r.SubmittedAt,
	}
}

// NewRequest is the POST /api/submit-request payload. The record
// fields mirror the direct-edit form; OldPicPath carries the existing
// stored picture reference when an update keeps it.
type NewRequest struct {
	Type            string `json:"type" form:"type" validate:"required"`
	TrackingID      string `json:"requestID" form:"requestID" validate:"required"`
	Requester       string `json:"username" form:"username" validate:"required"`
	Reason          string `json:"reason" form:"reason" validate:"required"`
	OriginalBadgeNo string `json:"originalBadgeNo" form:"originalBadgeNo"`
	OldPicPath      string `json:"oldPicPath" form:"oldPicPath"`

	BadgeType  string `json:"badgeType" form:"badgeType"`
	BadgeNo    string `json:"badgeNo" form:"badgeNo"`
	Name       string `json:"name" form:"name"`
	ParentName string `json:"parent" form:"parent"`
	Gender     string `json:"gender" form:"gender"`
	Phone      string `json:"phone" form:"phone"`
	Birth      string `json:"birth" form:"birth"`
	Address    string `json:"address" form:"address"`

	record sewadar.Record
}

func (nr *NewRequest) Validate() error {
	nr.Type = strings.ToUpper(core.CleanString(nr.Type))
	nr.TrackingID = core.CleanString(nr.TrackingID)
	nr.Requester = core.CleanString(nr.Requester)
	nr.Reason = core.CleanString(nr.Reason)
	nr.OriginalBadgeNo = core.CleanString(nr.OriginalBadgeNo)
	nr.OldPicPath = core.CleanString(nr.OldPicPath)

	if err := core.Validate.Struct(nr); err != nil {
		return err
	}

	switch nr.Type {
	case TypeAdd, TypeUpdate, TypeDelete:
	default:
		return core.NewValidationError(
			errors.New("invalid request type"),
			core.FieldError{Field: "type", Error: "must be one of ADD, UPDATE, DELETE"},
		)
	}

	if nr.Type != TypeAdd && nr.OriginalBadgeNo == "" {
		return core.NewValidationError(
			errors.New("missing critical request metadata"),
			core.FieldError{Field: "originalBadgeNo", Error: "required for UPDATE and DELETE requests"},
		)
	}
	if nr.Type == TypeDelete {
		return nil
	}

	// ADD and UPDATE payloads pass the same validation direct edits do,
	// so a request can never be approved into an invalid record.
	rec := sewadar.NewRecord{
		BadgeType:  nr.BadgeType,
		BadgeNo:    nr.BadgeNo,
		Name:       nr.Name,
		ParentName: nr.ParentName,
		Gender:     nr.Gender,
		Phone:      nr.Phone,
		Birth:      nr.Birth,
		Address:    nr.Address,
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	nr.record = sewadar.Record{
		BadgeType:  rec.BadgeType,
		BadgeNo:    rec.BadgeNo,
		Name:       rec.Name,
		ParentName: rec.ParentName,
		Gender:     rec.Gender,
		Phone:      rec.Phone,
		BirthDate:  rec.BirthDate(),
		Address:    rec.Address,
	}
	nr.BadgeNo = rec.BadgeNo
	return nil
}

// Target is the badge number the request acts on: the original key for
// UPDATE and DELETE, the submitted one for ADD.
func (nr *NewRequest) Target() string {
	if nr.Type == TypeAdd {
		return nr.BadgeNo
	}
	return nr.OriginalBadgeNo
}

// Record is only valid after a successful Validate of an ADD or UPDATE.
func (nr *NewRequest) Record() sewadar.Record { return nr.record }

// RejectRequest is the POST /api/requests/reject/:id payload.
type RejectRequest struct {
	Approver string `json:"approverUsername" form:"approverUsername"`
	Reason   string `json:"rejectionReason" form:"rejectionReason"`
}
