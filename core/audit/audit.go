package audit

import (
	"encoding/json"
	"time"

	"github.com/rssbrudrapur/sewabase/core"
)

// Action types
const (
	ActionAdminAdd         = "ADMIN_ADD"
	ActionAdminUpdate      = "ADMIN_UPDATE"
	ActionAdminDelete      = "ADMIN_DELETE"
	ActionAttendanceMarked = "SEWADAR_ATTENDANCE_MARKED"
)

// ActorAdminDirect identifies unattributed admin mutations; direct
// edits carry it as both actor and approver.
const ActorAdminDirect = "ADMIN_DIRECT"

// ApproverAdminPanel identifies moderated mutations finalized through
// the admin review queue.
const ApproverAdminPanel = "ADMIN_PANEL"

// Entry is one immutable audit log row.
type Entry struct {
	ID            int             `json:"id" db:"id"`
	TrackingID    string          `json:"tracking_id" db:"tracking_id"`
	ActionType    string          `json:"action_type" db:"action_type"`
	TargetBadgeNo string          `json:"target_badge_no" db:"target_badge_no"`
	Snapshot      json.RawMessage `json:"record_snapshot" db:"record_snapshot"`
	ActorUsername string          `json:"actor_username" db:"actor_username"`
	Approver      string          `json:"approver_username" db:"approver_username"`
	Reason        string          `json:"submission_reason" db:"submission_reason"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"` // UTC
}

type Repository interface {
	CreateEntry(e Entry) (Entry, error)
	QueryEntries(limit int) ([]Entry, error)
}

// Logger writes best-effort audit entries. Failures are reported to the
// operational logger and swallowed; a trailing audit write never fails
// the mutation it records. A nil Logger drops everything.
type Logger struct {
	repo Repository
	log  core.Logger
}

func NewLogger(repo Repository, log core.Logger) *Logger {
	return &Logger{repo: repo, log: log}
}

// Record writes an entry for a direct mutation; the actor is its own
// approver.
func (l *Logger) Record(trackingID, action, targetBadgeNo string, snapshot interface{}, actor, reason string) {
	l.RecordModerated(trackingID, action, targetBadgeNo, snapshot, actor, actor, reason)
}

// RecordModerated writes an entry for a mutation that went through the
// review queue, attributing requester and approver separately.
func (l *Logger) RecordModerated(trackingID, action, targetBadgeNo string, snapshot interface{}, actor, approver, reason string) {
	if l == nil {
		return
	}
	if trackingID == "" {
		trackingID = "N/A"
	}
	if targetBadgeNo == "" {
		targetBadgeNo = "N/A"
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		l.fail(core.AuditLogError{Err: err})
		return
	}
	e := Entry{
		TrackingID:    trackingID,
		ActionType:    action,
		TargetBadgeNo: targetBadgeNo,
		Snapshot:      data,
		ActorUsername: actor,
		Approver:      approver,
		Reason:        reason,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err = l.repo.CreateEntry(e); err != nil {
		l.fail(core.AuditLogError{Err: err})
	}
}

// Query returns the most recent entries, newest first.
func (l *Logger) Query(limit int) ([]Entry, error) {
	if l == nil {
		return nil, nil
	}
	return l.repo.QueryEntries(limit)
}

func (l *Logger) fail(err error) {
	if l.log != nil {
		l.log.Error("audit entry dropped: "+err.Error(), err)
	}
}
