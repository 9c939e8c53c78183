// Package rediscache persists the last fetched record set in a single
// named Redis slot. It is a warm-start cache only, never the source of
// truth; the server's record set always wins.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/session"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

const (
	recordsKey = "sewabase:records"
	recordsTTL = 24 * time.Hour
)

type SnapshotStore struct {
	client *redis.Client
}

var _ session.SnapshotStore = (*SnapshotStore)(nil) // interface compliance check

func NewSnapshotStore(conf *core.Config) *SnapshotStore {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	return &SnapshotStore{client: client}
}

func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SnapshotStore) SaveRecords(ctx context.Context, recs []sewadar.Record) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return errors.Wrap(err, "rediscache.SaveRecords")
	}
	if err = s.client.Set(ctx, recordsKey, data, recordsTTL).Err(); err != nil {
		return errors.Wrap(err, "rediscache.SaveRecords")
	}
	return nil
}

// LoadRecords returns (nil, nil) when the slot is empty.
func (s *SnapshotStore) LoadRecords(ctx context.Context) ([]sewadar.Record, error) {
	data, err := s.client.Get(ctx, recordsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "rediscache.LoadRecords")
	}
	var recs []sewadar.Record
	if err = json.Unmarshal(data, &recs); err != nil {
		return nil, errors.Wrap(err, "rediscache.LoadRecords")
	}
	return recs, nil
}

func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
