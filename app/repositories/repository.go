package repositories

import (
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Repository owns the Badger database shared by the Badger-backed
// repositories.
type Repository struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	isTestDB bool
}

// NewRepository opens the Badger database at path. An empty path opens a
// unique temporary directory that is removed again on Close.
func NewRepository(path string) (*Repository, error) {
	isTest := false
	if path == "" {
		tempPath, err := os.MkdirTemp("", "quill_test_db_")
		if err != nil {
			return nil, fmt.Errorf("error creating temp dir: %v", err)
		}
		path = tempPath
		isTest = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1)
	return open(opts, path, isTest)
}

// NewInMemoryRepository opens a Badger database that lives only in memory.
func NewInMemoryRepository() (*Repository, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)
	return open(opts, "", false)
}

func open(opts badger.Options, path string, isTest bool) (*Repository, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return &Repository{
		db:       db,
		dbPath:   path,
		isTestDB: isTest,
	}, nil
}

// DB exposes the underlying handle for backup and restore.
func (r *Repository) DB() *badger.DB {
	return r.db
}

// Users returns a user repository backed by this database.
func (r *Repository) Users() *BadgerUserRepository {
	return NewBadgerUserRepository(r.db)
}

// Posts returns a post repository backed by this database.
func (r *Repository) Posts() *BadgerPostRepository {
	return NewBadgerPostRepository(r.db)
}

func (r *Repository) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := r.db.Close(); err != nil {
		return err
	}

	if r.isTestDB {
		if err := os.RemoveAll(r.dbPath); err != nil {
			return fmt.Errorf("failed to cleanup test database: %v", err)
		}
	}
	return nil
}

// Clear drops every key in the database.
func (r *Repository) Clear() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.DropAll()
}
