package sewadar

import (
	"errors"

	"github.com/rssbrudrapur/sewabase/core/audit"
)

var (
	// errors
	ErrNotFound    = errors.New("record not found")
	ErrBadgeExists = errors.New("a record with this badge number already exists")
)

type (
	Repository interface {
		CreateRecord(rec Record) (Record, error)
		// QueryRecords returns all records in the given order.
		QueryRecords(ord Ordering) ([]Record, error)
		GetRecord(badgeNo string) (Record, error)
		// SearchRecords does a case-insensitive substring match against
		// the single allow-listed field in q.
		SearchRecords(q SearchQuery) ([]Record, error)
		// UpdateRecord replaces all fields of the record currently keyed
		// by originalBadgeNo; rec.BadgeNo may rekey it.
		UpdateRecord(originalBadgeNo string, rec Record) (Record, error)
		// DeleteRecord removes and returns the record for the key.
		DeleteRecord(badgeNo string) (Record, error)
	}

	Service struct {
		repo   Repository
		images ImageStore
		audit  *audit.Logger
	}
)

func NewService(repo Repository, images ImageStore, auditLog *audit.Logger) *Service {
	return &Service{repo: repo, images: images, audit: auditLog}
}

// Create validates and persists a new record. The picture is stored
// first when supplied; records without one reference the placeholder.
func (svc *Service) Create(nr NewRecord, img *Image) (Record, error) {
	if err := nr.Validate(); err != nil {
		return Record{}, err
	}

	rec := nr.record()
	rec.Pic = DefaultPic
	if img != nil {
		path, err := svc.images.Save(*img)
		if err != nil {
			return Record{}, err
		}
		rec.Pic = path
	}

	created, err := svc.repo.CreateRecord(rec)
	if err != nil {
		return Record{}, err
	}

	svc.audit.Record(nr.AdminTrackingID, audit.ActionAdminAdd, created.BadgeNo, created,
		audit.ActorAdminDirect, "Direct record creation by Admin")
	return created, nil
}

func (svc *Service) QueryAll(ord Ordering) ([]Record, error) {
	return svc.repo.QueryRecords(ord.Normalize())
}

func (svc *Service) GetByBadgeNo(badgeNo string) (Record, error) {
	return svc.repo.GetRecord(badgeNo)
}

func (svc *Service) Search(q SearchQuery) ([]Record, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return svc.repo.SearchRecords(q)
}

// Update replaces all fields of the record keyed by originalBadgeNo.
// Without a new image the previously stored picture reference is kept.
func (svc *Service) Update(originalBadgeNo string, ur UpdateRecord, img *Image) (Record, error) {
	if err := ur.Validate(); err != nil {
		return Record{}, err
	}

	existing, err := svc.repo.GetRecord(originalBadgeNo)
	if err != nil {
		return Record{}, err
	}

	rec := ur.record()
	rec.Pic = existing.Pic
	if img != nil {
		path, err := svc.images.Save(*img)
		if err != nil {
			return Record{}, err
		}
		rec.Pic = path
	}

	updated, err := svc.repo.UpdateRecord(originalBadgeNo, rec)
	if err != nil {
		return Record{}, err
	}

	svc.audit.Record(ur.AdminTrackingID, audit.ActionAdminUpdate, updated.BadgeNo, updated,
		audit.ActorAdminDirect, "Direct update by Admin")
	return updated, nil
}

// Delete removes the record for the key. Deleting an absent key yields
// ErrNotFound every time; it never succeeds twice.
func (svc *Service) Delete(badgeNo string, dr DeleteRecord) error {
	deleted, err := svc.repo.DeleteRecord(badgeNo)
	if err != nil {
		return err
	}

	reason := dr.Reason
	if reason == "" {
		reason = "No reason provided for audit."
	}
	svc.audit.Record(dr.TrackingID, audit.ActionAdminDelete, badgeNo, deleted,
		audit.ActorAdminDirect, reason)
	return nil
}
