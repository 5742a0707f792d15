// Package inmemdb provides in-memory repositories used by tests.
package inmemdb

import (
	"sync"

	"github.com/projectzone/backend/core/analytics"
	"github.com/projectzone/backend/core/lead"
	"github.com/projectzone/backend/core/user"
)

type DB struct {
	mu      sync.RWMutex
	pkCount int

	queries  []lead.Query
	visitors []analytics.Visitor
	clicks   []analytics.Click
	users    map[string]user.User

	err error
}

func Open() (*DB, error) {
	return &DB{users: make(map[string]user.User)}, nil
}

// SetErr makes every repository operation fail with err until cleared
// with SetErr(nil). Used to exercise failure paths.
func (db *DB) SetErr(err error) {
	db.mu.Lock()
	db.err = err
	db.mu.Unlock()
}

func (db *DB) nextID() int {
	db.pkCount++
	return db.pkCount
}
