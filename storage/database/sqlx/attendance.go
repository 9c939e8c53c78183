package sqlxrepos

import (
	"github.com/jmoiron/sqlx"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) CreateEntry(e attendance.Entry) (attendance.Entry, error) {
	var created attendance.Entry
	err := repo.db.QueryRowx(
		`INSERT INTO sewadar_attendance (username, status, check_in_time, location)
		 VALUES ($1, $2, $3, $4) RETURNING *`,
		e.Username, e.Status, e.CheckInTime, e.Location,
	).StructScan(&created)
	if err != nil {
		return attendance.Entry{}, core.NewStoreError("attendance.CreateEntry", err)
	}
	return created, nil
}

func (repo attendanceRepository) QueryEntries(username string, limit int) ([]attendance.Entry, error) {
	entries := []attendance.Entry{}
	err := repo.db.Select(&entries,
		`SELECT * FROM sewadar_attendance WHERE username = $1 ORDER BY check_in_time DESC LIMIT $2`,
		username, limit)
	if err != nil {
		return nil, core.NewStoreError("attendance.QueryEntries", err)
	}
	return entries, nil
}

func (repo attendanceRepository) QueryUpcomingDuties(username string) ([]attendance.Duty, error) {
	duties := []attendance.Duty{}
	err := repo.db.Select(&duties,
		`SELECT sewa_id, duty_name, scheduled_time, location, is_urgent
		 FROM sewa_schedule
		 WHERE assigned_user = $1 AND scheduled_time > NOW()
		 ORDER BY scheduled_time ASC`,
		username)
	if err != nil {
		return nil, core.NewStoreError("attendance.QueryUpcomingDuties", err)
	}
	return duties, nil
}
