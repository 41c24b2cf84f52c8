// Package orm is a thin chainable wrapper around GORM.
//
// It adds the two primitives the inventory core is built on:
//
//	// Atomic unit — commit on nil, rollback on error or panic:
//	err := orm.Transaction(func(tx *orm.Query) error {
//	    var p models.Product
//	    if err := tx.LockForUpdate().First(&p, id); err != nil {
//	        return err
//	    }
//	    // ... mutate, create ledger rows ...
//	    return nil
//	})
//
// LockForUpdate takes an exclusive row lock held until the transaction
// commits, so two concurrent sales of the last unit serialise instead of
// both observing "1 available".
package orm

import (
	"time"

	"github.com/cafahardware/pos/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRecordNotFound re-exports gorm's not-found sentinel so repositories do
// not need a direct gorm import to test for it.
var ErrRecordNotFound = gorm.ErrRecordNotFound

// Query wraps a *gorm.DB so call sites read like the query builder the rest
// of the app uses. Each method returns a new Query; the receiver is never
// mutated.
type Query struct {
	db *gorm.DB
}

// DB returns a Query bound to the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Wrap builds a Query around an existing *gorm.DB (used by tests and by
// Transaction to hand the tx-scoped handle to the callback).
func Wrap(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for the rare query the wrapper does not
// cover (aggregates, raw SQL).
func (q *Query) Gorm() *gorm.DB { return q.db }

// ─── Transactions ─────────────────────────────────────────────────────────────

// Transaction runs fn inside a database transaction. The transaction commits
// when fn returns nil and rolls back when it returns an error or panics, so
// locks are released on every exit path.
func Transaction(fn func(tx *Query) error) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}

// Transaction runs fn within a transaction started from this Query. If q is
// already transaction-scoped GORM uses a savepoint, so nested calls join the
// outer atomic unit.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}

// LockForUpdate adds SELECT ... FOR UPDATE to the next read. Only meaningful
// inside a transaction. SQLite has a single writer and no row locks; there
// the clause is skipped rather than sent as invalid SQL.
func (q *Query) LockForUpdate() *Query {
	if q.db.Dialector.Name() == "sqlite" {
		return q
	}
	return &Query{db: q.db.Clauses(clause.Locking{Strength: "UPDATE"})}
}

// ─── Builder methods ──────────────────────────────────────────────────────────

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Joins(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Joins(query, args...)}
}

func (q *Query) Preload(relation string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(relation, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

func (q *Query) Select(columns ...string) *Query {
	return &Query{db: q.db.Select(columns)}
}

func (q *Query) Omit(columns ...string) *Query {
	return &Query{db: q.db.Omit(columns...)}
}

// ─── Finishers ────────────────────────────────────────────────────────────────

// Get loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row. Returns gorm.ErrRecordNotFound when
// nothing matches.
func (q *Query) First(dest interface{}, conds ...interface{}) error {
	return q.db.First(dest, conds...).Error
}

// Count returns the number of matching rows.
func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Pluck loads a single column into dest.
func (q *Query) Pluck(column string, dest interface{}) error {
	return q.db.Pluck(column, dest).Error
}

// Create inserts v.
func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

// Save persists all fields of v (insert or full update).
func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Update sets a single column on the matched rows.
func (q *Query) Update(column string, value interface{}) error {
	return q.db.Update(column, value).Error
}

// Updates applies a map or struct of changes to the matched rows.
func (q *Query) Updates(values interface{}) error {
	return q.db.Updates(values).Error
}

// Delete removes v (soft delete for models with gorm.DeletedAt).
func (q *Query) Delete(v interface{}, conds ...interface{}) error {
	return q.db.Delete(v, conds...).Error
}

// ─── Pagination ───────────────────────────────────────────────────────────────

// Pagination describes one page of a larger result set.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// GetWithPagination loads one page of results into dest and returns the page
// metadata. page is 1-based; limit falls back to 15.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	err := q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error
	if err != nil {
		return Pagination{}, err
	}

	last := int((total + int64(limit) - 1) / int64(limit))
	if last < 1 {
		last = 1
	}

	return Pagination{Page: page, PerPage: limit, Total: total, LastPage: last}, nil
}

// ─── Cache-through reads ──────────────────────────────────────────────────────

// Cacher is the minimal cache interface the ORM needs. pkg/app wires the
// Redis cache in at boot; the indirection avoids an import cycle.
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is set once at boot (see pkg/app/kernel.go).
var CacheStore Cacher

// Cache loads dest from the cache when possible, otherwise runs the query
// and stores the result under key for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}
