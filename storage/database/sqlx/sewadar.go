package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

const uniqueViolation = "23505"

type sewadarRepository struct {
	db *sqlx.DB
}

var _ sewadar.Repository = (*sewadarRepository)(nil) // interface compliance check

func NewSewadarRepository(db *sqlx.DB) *sewadarRepository {
	return &sewadarRepository{db: db}
}

func (repo sewadarRepository) CreateRecord(rec sewadar.Record) (sewadar.Record, error) {
	var created sewadar.Record
	err := repo.db.QueryRowx(
		`INSERT INTO persons (badge_type, badge_no, pic, name, parent_name, gender, phone, birth_date, address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING *`,
		rec.BadgeType, rec.BadgeNo, rec.Pic, rec.Name, rec.ParentName, rec.Gender, rec.Phone, rec.BirthDate, rec.Address,
	).StructScan(&created)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return sewadar.Record{}, sewadar.ErrBadgeExists
		}
		return sewadar.Record{}, core.NewStoreError("sewadar.CreateRecord", err)
	}
	return created, nil
}

func (repo sewadarRepository) QueryRecords(ord sewadar.Ordering) ([]sewadar.Record, error) {
	// ord comes pre-normalized onto the column allow-list; it is never
	// raw client input.
	q := fmt.Sprintf("SELECT * FROM persons ORDER BY %s %s", ord.Field, ord.Direction)
	recs := []sewadar.Record{}
	if err := repo.db.Select(&recs, q); err != nil {
		return nil, core.NewStoreError("sewadar.QueryRecords", err)
	}
	return recs, nil
}

func (repo sewadarRepository) GetRecord(badgeNo string) (sewadar.Record, error) {
	var rec sewadar.Record
	err := repo.db.Get(&rec, "SELECT * FROM persons WHERE badge_no = $1", badgeNo)
	if err == sql.ErrNoRows {
		return sewadar.Record{}, sewadar.ErrNotFound
	}
	if err != nil {
		return sewadar.Record{}, core.NewStoreError("sewadar.GetRecord", err)
	}
	return rec, nil
}

func (repo sewadarRepository) SearchRecords(q sewadar.SearchQuery) ([]sewadar.Record, error) {
	// q.Field is validated against the column allow-list before it
	// reaches the repository.
	query := fmt.Sprintf("SELECT * FROM persons WHERE %s ILIKE $1", q.Field)
	recs := []sewadar.Record{}
	if err := repo.db.Select(&recs, query, "%"+q.Term+"%"); err != nil {
		return nil, core.NewStoreError("sewadar.SearchRecords", err)
	}
	return recs, nil
}

func (repo sewadarRepository) UpdateRecord(originalBadgeNo string, rec sewadar.Record) (sewadar.Record, error) {
	var updated sewadar.Record
	err := repo.db.QueryRowx(
		`UPDATE persons SET badge_type = $1, badge_no = $2, pic = $3, name = $4, parent_name = $5,
		 gender = $6, phone = $7, birth_date = $8, address = $9
		 WHERE badge_no = $10 RETURNING *`,
		rec.BadgeType, rec.BadgeNo, rec.Pic, rec.Name, rec.ParentName, rec.Gender, rec.Phone, rec.BirthDate, rec.Address,
		originalBadgeNo,
	).StructScan(&updated)
	if err == sql.ErrNoRows {
		return sewadar.Record{}, sewadar.ErrNotFound
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return sewadar.Record{}, sewadar.ErrBadgeExists
		}
		return sewadar.Record{}, core.NewStoreError("sewadar.UpdateRecord", err)
	}
	return updated, nil
}

func (repo sewadarRepository) DeleteRecord(badgeNo string) (sewadar.Record, error) {
	var deleted sewadar.Record
	err := repo.db.QueryRowx("DELETE FROM persons WHERE badge_no = $1 RETURNING *", badgeNo).StructScan(&deleted)
	if err == sql.ErrNoRows {
		return sewadar.Record{}, sewadar.ErrNotFound
	}
	if err != nil {
		return sewadar.Record{}, core.NewStoreError("sewadar.DeleteRecord", err)
	}
	return deleted, nil
}
