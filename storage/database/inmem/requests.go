package inmemdb

import (
	"sort"

	"github.com/rssbrudrapur/sewabase/core/requests"
)

type requestRepository struct {
	db *requestTable
}

var _ requests.Repository = (*requestRepository)(nil) // interface compliance check

func NewRequestRepository(db *DB) *requestRepository {
	return &requestRepository{db: db.requests}
}

func (repo *requestRepository) CreateRequest(req requests.Request) (requests.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, r := range repo.db.table {
		if r.TrackingID == req.TrackingID {
			return requests.Request{}, requests.ErrTrackingExists
		}
	}
	repo.db.seq++
	req.ID = repo.db.seq
	repo.db.table[req.ID] = &req
	return req, nil
}

func (repo *requestRepository) GetRequest(id int) (requests.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if req, ok := repo.db.table[id]; ok {
		return *req, nil
	}
	return requests.Request{}, requests.ErrNotFound
}

func (repo *requestRepository) GetPending(id int) (requests.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if req, ok := repo.db.table[id]; ok && req.Status == requests.StatusPending {
		return *req, nil
	}
	return requests.Request{}, requests.ErrNotFound
}

func (repo *requestRepository) QueryPending() ([]requests.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reqs := []requests.Request{}
	for _, req := range repo.db.table {
		if req.Status == requests.StatusPending {
			reqs = append(reqs, *req)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].SubmittedAt.Before(reqs[j].SubmittedAt) })
	return reqs, nil
}

func (repo *requestRepository) QueryByTarget(badgeNo string) ([]requests.Request, error) {
	return repo.query(func(req *requests.Request) bool { return req.TargetBadgeNo == badgeNo })
}

func (repo *requestRepository) QueryByRequester(username string) ([]requests.Request, error) {
	return repo.query(func(req *requests.Request) bool { return req.Requester == username })
}

// query collects matching requests, newest first.
func (repo *requestRepository) query(match func(*requests.Request) bool) ([]requests.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reqs := []requests.Request{}
	for _, req := range repo.db.table {
		if match(req) {
			reqs = append(reqs, *req)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].SubmittedAt.After(reqs[j].SubmittedAt) })
	return reqs, nil
}

func (repo *requestRepository) SetStatus(id int, status string) (requests.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	req, ok := repo.db.table[id]
	if !ok || req.Status != requests.StatusPending {
		return requests.Request{}, requests.ErrNotFound
	}
	req.Status = status
	return *req, nil
}
