package inmemdb

import (
	"sort"
	"time"

	"github.com/rssbrudrapur/sewabase/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) CreateEntry(e attendance.Entry) (attendance.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq++
	e.ID = repo.db.seq
	repo.db.entries = append(repo.db.entries, e)
	return e, nil
}

func (repo *attendanceRepository) QueryEntries(username string, limit int) ([]attendance.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]attendance.Entry, 0, limit)
	for _, e := range repo.db.entries {
		if e.Username == username {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CheckInTime.After(entries[j].CheckInTime) })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (repo *attendanceRepository) QueryUpcomingDuties(username string) ([]attendance.Duty, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	now := time.Now()
	duties := make([]attendance.Duty, 0)
	for _, d := range repo.db.duties {
		if d.AssignedUser == username && d.DateTime.After(now) {
			duties = append(duties, d)
		}
	}
	sort.Slice(duties, func(i, j int) bool { return duties[i].DateTime.Before(duties[j].DateTime) })
	return duties, nil
}

// AddDuty seeds a schedule row; tests use it in place of migrations.
func (repo *attendanceRepository) AddDuty(d attendance.Duty) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq++
	d.SewaID = repo.db.seq
	repo.db.duties = append(repo.db.duties, d)
}
