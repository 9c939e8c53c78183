package inmemdb

import (
	"sort"
	"strings"

	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

type sewadarRepository struct {
	db *sewadarTable
}

var _ sewadar.Repository = (*sewadarRepository)(nil) // interface compliance check

func NewSewadarRepository(db *DB) *sewadarRepository {
	return &sewadarRepository{db: db.sewadar}
}

func (repo *sewadarRepository) CreateRecord(rec sewadar.Record) (sewadar.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[rec.BadgeNo]; ok {
		return sewadar.Record{}, sewadar.ErrBadgeExists
	}
	repo.db.seq++
	rec.ID = repo.db.seq
	repo.db.table[rec.BadgeNo] = &rec
	return rec, nil
}

func (repo *sewadarRepository) QueryRecords(ord sewadar.Ordering) ([]sewadar.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := repo.query()
	sort.SliceStable(recs, func(i, j int) bool {
		var less bool
		switch ord.Field {
		case "badge_no":
			less = recs[i].BadgeNo < recs[j].BadgeNo
		case "birth_date":
			less = recs[i].BirthDate.Time().Before(recs[j].BirthDate.Time())
		default:
			less = recs[i].Name < recs[j].Name
		}
		if ord.Direction == "DESC" {
			return !less
		}
		return less
	})
	return recs, nil
}

func (repo *sewadarRepository) GetRecord(badgeNo string) (sewadar.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rec, ok := repo.db.table[badgeNo]; ok {
		return *rec, nil
	}
	return sewadar.Record{}, sewadar.ErrNotFound
}

func (repo *sewadarRepository) SearchRecords(q sewadar.SearchQuery) ([]sewadar.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	term := strings.ToLower(q.Term)
	matched := make([]sewadar.Record, 0)
	for _, rec := range repo.query() {
		var val string
		switch q.Field {
		case "badge_no":
			val = rec.BadgeNo
		case "name":
			val = rec.Name
		case "parent_name":
			val = rec.ParentName
		case "phone":
			val = rec.Phone
		case "address":
			val = rec.Address
		}
		if strings.Contains(strings.ToLower(val), term) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

func (repo *sewadarRepository) UpdateRecord(originalBadgeNo string, rec sewadar.Record) (sewadar.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	existing, ok := repo.db.table[originalBadgeNo]
	if !ok {
		return sewadar.Record{}, sewadar.ErrNotFound
	}
	if rec.BadgeNo != originalBadgeNo {
		if _, taken := repo.db.table[rec.BadgeNo]; taken {
			return sewadar.Record{}, sewadar.ErrBadgeExists
		}
		delete(repo.db.table, originalBadgeNo)
	}
	rec.ID = existing.ID
	repo.db.table[rec.BadgeNo] = &rec
	return rec, nil
}

func (repo *sewadarRepository) DeleteRecord(badgeNo string) (sewadar.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rec, ok := repo.db.table[badgeNo]
	if !ok {
		return sewadar.Record{}, sewadar.ErrNotFound
	}
	delete(repo.db.table, badgeNo)
	return *rec, nil
}

func (repo *sewadarRepository) query() []sewadar.Record {
	recs := make([]sewadar.Record, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		recs = append(recs, *rec)
	}
	return recs
}
