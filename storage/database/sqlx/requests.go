package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/requests"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

type requestRepository struct {
	db *sqlx.DB
}

var _ requests.Repository = (*requestRepository)(nil) // interface compliance check

func NewRequestRepository(db *sqlx.DB) *requestRepository {
	return &requestRepository{db: db}
}

// requestRow maps the moderation_requests table; requested_data is
// JSONB and needs an explicit unmarshal into the record type.
type requestRow struct {
	ID            int       `db:"request_id"`
	TrackingID    string    `db:"tracking_id"`
	Type          string    `db:"request_type"`
	TargetBadgeNo string    `db:"target_badge_no"`
	Data          []byte    `db:"requested_data"`
	Requester     string    `db:"requester_username"`
	Reason        string    `db:"submission_reason"`
	Status        string    `db:"request_status"`
	SubmittedAt   time.Time `db:"submission_timestamp"`
}

func (row requestRow) request() (requests.Request, error) {
	var rec sewadar.Record
	if err := json.Unmarshal(row.Data, &rec); err != nil {
		return requests.Request{}, err
	}
	return requests.Request{
		ID:            row.ID,
		TrackingID:    row.TrackingID,
		Type:          row.Type,
		TargetBadgeNo: row.TargetBadgeNo,
		Data:          rec,
		Requester:     row.Requester,
		Reason:        row.Reason,
		Status:        row.Status,
		SubmittedAt:   row.SubmittedAt,
	}, nil
}

func (repo requestRepository) CreateRequest(req requests.Request) (requests.Request, error) {
	data, err := json.Marshal(req.Data)
	if err != nil {
		return requests.Request{}, core.NewStoreError("requests.CreateRequest", err)
	}

	var row requestRow
	err = repo.db.QueryRowx(
		`INSERT INTO moderation_requests
		 (tracking_id, request_type, target_badge_no, requested_data, requester_username, submission_reason, request_status, submission_timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING *`,
		req.TrackingID, req.Type, req.TargetBadgeNo, data, req.Requester, req.Reason, req.Status, req.SubmittedAt,
	).StructScan(&row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return requests.Request{}, requests.ErrTrackingExists
		}
		return requests.Request{}, core.NewStoreError("requests.CreateRequest", err)
	}
	return row.request()
}

func (repo requestRepository) GetRequest(id int) (requests.Request, error) {
	return repo.get("SELECT * FROM moderation_requests WHERE request_id = $1", id)
}

func (repo requestRepository) GetPending(id int) (requests.Request, error) {
	return repo.get("SELECT * FROM moderation_requests WHERE request_id = $1 AND request_status = 'Pending'", id)
}

func (repo requestRepository) get(query string, id int) (requests.Request, error) {
	var row requestRow
	err := repo.db.Get(&row, query, id)
	if err == sql.ErrNoRows {
		return requests.Request{}, requests.ErrNotFound
	}
	if err != nil {
		return requests.Request{}, core.NewStoreError("requests.GetRequest", err)
	}
	return row.request()
}

func (repo requestRepository) QueryPending() ([]requests.Request, error) {
	return repo.query(
		`SELECT * FROM moderation_requests WHERE request_status = 'Pending' ORDER BY submission_timestamp ASC`)
}

func (repo requestRepository) QueryByTarget(badgeNo string) ([]requests.Request, error) {
	return repo.query(
		`SELECT * FROM moderation_requests WHERE target_badge_no = $1 ORDER BY submission_timestamp DESC`, badgeNo)
}

func (repo requestRepository) QueryByRequester(username string) ([]requests.Request, error) {
	return repo.query(
		`SELECT * FROM moderation_requests WHERE requester_username = $1 ORDER BY submission_timestamp DESC`, username)
}

func (repo requestRepository) query(query string, args ...interface{}) ([]requests.Request, error) {
	rows := []requestRow{}
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, core.NewStoreError("requests.Query", err)
	}
	reqs := make([]requests.Request, 0, len(rows))
	for _, row := range rows {
		req, err := row.request()
		if err != nil {
			return nil, core.NewStoreError("requests.Query", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func (repo requestRepository) SetStatus(id int, status string) (requests.Request, error) {
	var row requestRow
	err := repo.db.QueryRowx(
		`UPDATE moderation_requests SET request_status = $1
		 WHERE request_id = $2 AND request_status = 'Pending' RETURNING *`,
		status, id,
	).StructScan(&row)
	if err == sql.ErrNoRows {
		return requests.Request{}, requests.ErrNotFound
	}
	if err != nil {
		return requests.Request{}, core.NewStoreError("requests.SetStatus", err)
	}
	return row.request()
}
