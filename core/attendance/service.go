package attendance

import (
	"github.com/rssbrudrapur/sewabase/core/audit"
)

type (
	Repository interface {
		CreateEntry(e Entry) (Entry, error)
		// QueryEntries returns the user's entries newest first, at most limit.
		QueryEntries(username string, limit int) ([]Entry, error)
		// QueryUpcomingDuties returns the user's future assignments soonest first.
		QueryUpcomingDuties(username string) ([]Duty, error)
	}

	// EventPublisher is a one-way, fire-and-forget notification channel.
	EventPublisher interface {
		PublishMarked(ev MarkedEvent)
	}

	Service struct {
		repo      Repository
		publisher EventPublisher
		audit     *audit.Logger
	}
)

func NewService(repo Repository, publisher EventPublisher, auditLog *audit.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, audit: auditLog}
}

// Mark records a check-in, audits it and notifies other viewers. Only
// the insert can fail the call; the audit write and the notification
// are both best-effort.
func (svc *Service) Mark(mr MarkRequest) (Entry, error) {
	if err := mr.Validate(); err != nil {
		return Entry{}, err
	}

	entry, err := svc.repo.CreateEntry(mr.entry())
	if err != nil {
		return Entry{}, err
	}

	svc.audit.Record(mr.TrackingID, audit.ActionAttendanceMarked, mr.Username,
		map[string]interface{}{
			"status":       entry.Status,
			"location":     entry.Location,
			"attendanceId": entry.ID,
		},
		mr.Username, "Sewadar Action")

	if svc.publisher != nil {
		svc.publisher.PublishMarked(MarkedEvent{
			Username: entry.Username,
			Time:     entry.CheckInTime,
			Status:   entry.Status,
		})
	}
	return entry, nil
}

// History returns the user's most recent check-ins, newest first.
func (svc *Service) History(username string) ([]HistoryEntry, error) {
	entries, err := svc.repo.QueryEntries(username, historyLimit)
	if err != nil {
		return nil, err
	}
	hist := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		hist = append(hist, HistoryEntry{
			Date:   e.CheckInTime,
			Status: e.Status,
			Time:   e.CheckInTime.Format("03:04 PM"),
		})
	}
	return hist, nil
}

// UpcomingSewa returns the user's future duty assignments.
func (svc *Service) UpcomingSewa(username string) ([]Duty, error) {
	return svc.repo.QueryUpcomingDuties(username)
}
