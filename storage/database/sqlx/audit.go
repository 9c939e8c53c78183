package sqlxrepos

import (
	"github.com/jmoiron/sqlx"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/audit"
)

type auditRepository struct {
	db *sqlx.DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *sqlx.DB) *auditRepository {
	return &auditRepository{db: db}
}

func (repo auditRepository) CreateEntry(e audit.Entry) (audit.Entry, error) {
	var created audit.Entry
	err := repo.db.QueryRowx(
		`INSERT INTO logs (tracking_id, action_type, target_badge_no, record_snapshot, actor_username, approver_username, submission_reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING *`,
		e.TrackingID, e.ActionType, e.TargetBadgeNo, []byte(e.Snapshot), e.ActorUsername, e.Approver, e.Reason, e.CreatedAt,
	).StructScan(&created)
	if err != nil {
		return audit.Entry{}, core.NewStoreError("audit.CreateEntry", err)
	}
	return created, nil
}

func (repo auditRepository) QueryEntries(limit int) ([]audit.Entry, error) {
	entries := []audit.Entry{}
	if err := repo.db.Select(&entries, "SELECT * FROM logs ORDER BY created_at DESC LIMIT $1", limit); err != nil {
		return nil, core.NewStoreError("audit.QueryEntries", err)
	}
	return entries, nil
}
