// Package inmemdb backs the domain repositories with in-memory tables.
// It exists for tests and local tinkering; ordering and matching mirror
// the SQL implementations.
package inmemdb

import (
	"sync"

	"github.com/rssbrudrapur/sewabase/core/attendance"
	"github.com/rssbrudrapur/sewabase/core/audit"
	"github.com/rssbrudrapur/sewabase/core/requests"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
	"github.com/rssbrudrapur/sewabase/core/user"
)

type (
	DB struct {
		user       *userTable
		sewadar    *sewadarTable
		audit      *auditTable
		attendance *attendanceTable
		requests   *requestTable
	}

	userTable struct {
		table map[int]*user.User
		seq   int
		mutex sync.RWMutex
	}

	sewadarTable struct {
		// keyed by badge number; insertion order is irrelevant, every
		// query re-sorts like the SQL layer does
		table map[string]*sewadar.Record
		seq   int
		mutex sync.RWMutex
	}

	auditTable struct {
		entries []audit.Entry
		seq     int
		mutex   sync.RWMutex
	}

	attendanceTable struct {
		entries []attendance.Entry
		duties  []attendance.Duty
		seq     int
		mutex   sync.RWMutex
	}

	requestTable struct {
		table map[int]*requests.Request
		seq   int
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user:       &userTable{table: make(map[int]*user.User)},
		sewadar:    &sewadarTable{table: make(map[string]*sewadar.Record)},
		audit:      &auditTable{},
		attendance: &attendanceTable{},
		requests:   &requestTable{table: make(map[int]*requests.Request)},
	}
}
