// Package requests implements the record-change moderation queue:
// non-admin users submit ADD/UPDATE/DELETE requests, admins approve or
// reject them, and approved requests are applied to the record store
// with full audit attribution.
package requests

import (
	"errors"
	"time"

	"github.com/rssbrudrapur/sewabase/core/audit"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

var (
	// errors
	ErrNotFound       = errors.New("pending request not found or already processed")
	ErrTrackingExists = errors.New("a request with this tracking ID already exists")
	ErrUnknownType    = errors.New("unknown request type")
)

type (
	Repository interface {
		CreateRequest(req Request) (Request, error)
		GetRequest(id int) (Request, error)
		// GetPending returns the request only while it is still pending.
		GetPending(id int) (Request, error)
		// QueryPending returns pending requests, oldest first.
		QueryPending() ([]Request, error)
		// QueryByTarget returns every request for the badge, newest first.
		QueryByTarget(badgeNo string) ([]Request, error)
		// QueryByRequester returns the user's requests, newest first.
		QueryByRequester(username string) ([]Request, error)
		// SetStatus transitions a pending request; a missing or already
		// processed id yields ErrNotFound.
		SetStatus(id int, status string) (Request, error)
	}

	Service struct {
		repo    Repository
		records sewadar.Repository
		images  sewadar.ImageStore
		audit   *audit.Logger
	}
)

func NewService(repo Repository, records sewadar.Repository, images sewadar.ImageStore, auditLog *audit.Logger) *Service {
	return &Service{repo: repo, records: records, images: images, audit: auditLog}
}

// Submit validates and queues a change request. Nothing touches the
// record store until an admin approves it.
func (svc *Service) Submit(nr NewRequest, img *sewadar.Image) (Request, error) {
	if err := nr.Validate(); err != nil {
		return Request{}, err
	}

	rec := nr.Record()
	if nr.Type != TypeDelete {
		switch {
		case img != nil:
			path, err := svc.images.Save(*img)
			if err != nil {
				return Request{}, err
			}
			rec.Pic = path
		case nr.OldPicPath != "":
			rec.Pic = nr.OldPicPath
		default:
			rec.Pic = sewadar.DefaultPic
		}
	}

	return svc.repo.CreateRequest(Request{
		TrackingID:    nr.TrackingID,
		Type:          nr.Type,
		TargetBadgeNo: nr.Target(),
		Data:          rec,
		Requester:     nr.Requester,
		Reason:        nr.Reason,
		Status:        StatusPending,
		SubmittedAt:   time.Now().UTC(),
	})
}

// Approve applies a pending request to the record store and marks it
// approved. A failed apply (duplicate badge, vanished target) leaves
// the request pending so the admin sees why.
func (svc *Service) Approve(id int) (Request, error) {
	req, err := svc.repo.GetPending(id)
	if err != nil {
		return Request{}, err
	}

	var snapshot interface{}
	switch req.Type {
	case TypeAdd:
		created, err := svc.records.CreateRecord(req.Data)
		if err != nil {
			return Request{}, err
		}
		snapshot = created
	case TypeUpdate:
		// approval never rekeys; the submitted badge number is ignored
		// in favor of the request's target
		rec := req.Data
		rec.BadgeNo = req.TargetBadgeNo
		updated, err := svc.records.UpdateRecord(req.TargetBadgeNo, rec)
		if err != nil {
			return Request{}, err
		}
		snapshot = updated
	case TypeDelete:
		deleted, err := svc.records.DeleteRecord(req.TargetBadgeNo)
		if err != nil {
			return Request{}, err
		}
		snapshot = deleted
	default:
		return Request{}, ErrUnknownType
	}

	req, err = svc.repo.SetStatus(id, StatusApproved)
	if err != nil {
		return Request{}, err
	}

	svc.audit.RecordModerated(req.TrackingID, "USER_"+req.Type+"_APPROVED", req.TargetBadgeNo,
		snapshot, req.Requester, audit.ApproverAdminPanel, "Approved: "+reasonOrDefault(req.Reason))
	return req, nil
}

// Reject marks a pending request rejected without touching the record
// store.
func (svc *Service) Reject(id int, rejectionReason string) (Request, error) {
	req, err := svc.repo.SetStatus(id, StatusRejected)
	if err != nil {
		return Request{}, err
	}

	svc.audit.RecordModerated(req.TrackingID, "USER_"+req.Type+"_REJECTED", req.TargetBadgeNo,
		req.Data, req.Requester, audit.ApproverAdminPanel, "Rejected: "+reasonOrDefault(rejectionReason))
	return req, nil
}

// Get returns the full request regardless of status.
func (svc *Service) Get(id int) (Request, error) {
	return svc.repo.GetRequest(id)
}

// Pending lists requests awaiting review, oldest first.
func (svc *Service) Pending() ([]Summary, error) {
	reqs, err := svc.repo.QueryPending()
	if err != nil {
		return nil, err
	}
	return summaries(reqs), nil
}

// HistoryFor lists every request ever made against a badge number,
// newest first.
func (svc *Service) HistoryFor(badgeNo string) ([]Summary, error) {
	reqs, err := svc.repo.QueryByTarget(badgeNo)
	if err != nil {
		return nil, err
	}
	return summaries(reqs), nil
}

// ByRequester lists a user's own submissions, newest first.
func (svc *Service) ByRequester(username string) ([]Summary, error) {
	reqs, err := svc.repo.QueryByRequester(username)
	if err != nil {
		return nil, err
	}
	return summaries(reqs), nil
}

func summaries(reqs []Request) []Summary {
	sums := make([]Summary, len(reqs))
	for i, req := range reqs {
		sums[i] = req.Summary()
	}
	return sums
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "No reason provided"
	}
	return reason
}
