// Package inmem provides in-memory repository implementations for tests
// and local development.
package inmem

import (
	"sync"

	"github.com/normoctl/normocontrol/core/check"
	"github.com/normoctl/normocontrol/core/group"
	"github.com/normoctl/normocontrol/core/user"
)

type DB struct {
	mu      sync.RWMutex
	seq     int
	users   map[int]user.User
	groups  map[int]group.Group
	checks  map[int]check.Check
	remarks map[int]check.Remark
}

func NewDB() *DB {
	return &DB{
		users:   make(map[int]user.User),
		groups:  make(map[int]group.Group),
		checks:  make(map[int]check.Check),
		remarks: make(map[int]check.Remark),
	}
}

// nextID must be called with the write lock held.
func (db *DB) nextID() int {
	db.seq++
	return db.seq
}

// Clear drops all stored rows. Handy between test cases.
func (db *DB) Clear() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.users = make(map[int]user.User)
	db.groups = make(map[int]group.Group)
	db.checks = make(map[int]check.Check)
	db.remarks = make(map[int]check.Remark)
}
