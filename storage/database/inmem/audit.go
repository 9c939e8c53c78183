package inmemdb

import (
	"github.com/rssbrudrapur/sewabase/core/audit"
)

type auditRepository struct {
	db *auditTable
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *DB) *auditRepository {
	return &auditRepository{db: db.audit}
}

func (repo *auditRepository) CreateEntry(e audit.Entry) (audit.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq++
	e.ID = repo.db.seq
	repo.db.entries = append(repo.db.entries, e)
	return e, nil
}

func (repo *auditRepository) QueryEntries(limit int) ([]audit.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	// newest first
	entries := make([]audit.Entry, 0, limit)
	for i := len(repo.db.entries) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, repo.db.entries[i])
	}
	return entries, nil
}
