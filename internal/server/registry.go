package server

import (
	"errors"
	"fmt"
	"sync"

	"go.pagestore/internal/config"
	"go.pagestore/internal/engine"
	"go.pagestore/internal/logger"
)

var errDatabaseInUse = errors.New("database is open in another session")

// sharedDB is one open database shared by every session that opened it. The engine is
// single-threaded, so every call goes through mu.
type sharedDB struct {
	mu   sync.Mutex
	db   *engine.Database
	refs int
}

func (s *sharedDB) do(fn func(db *engine.Database) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.db)
}

type registry struct {
	cfg *config.Config
	log *logger.Logger

	mu  sync.Mutex
	dbs map[string]*sharedDB
}

func newRegistry(cfg *config.Config, log *logger.Logger) *registry {
	return &registry{
		cfg: cfg,
		log: log,
		dbs: make(map[string]*sharedDB),
	}
}

// acquire returns the open database called name, opening it on first use. The database
// must already exist.
func (r *registry) acquire(name string) (*sharedDB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.dbs[name]; ok {
		s.refs++
		return s, nil
	}

	if !engine.Exists(name, r.cfg) {
		return nil, fmt.Errorf("%w: %s", engine.ErrDatabaseNotFound, name)
	}

	db, err := engine.Open(name, r.cfg)
	if err != nil {
		return nil, err
	}

	r.log.Infof("opened database %s", name)
	s := &sharedDB{db: db, refs: 1}
	r.dbs[name] = s
	return s, nil
}

func (r *registry) release(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.dbs[name]
	if !ok {
		return nil
	}

	s.refs--
	if s.refs > 0 {
		return nil
	}

	delete(r.dbs, name)
	r.log.Infof("closed database %s", name)
	return s.do(func(db *engine.Database) error { return db.Close() })
}

// create makes a new database without opening it for any session.
func (r *registry) create(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return engine.Create(name, r.cfg)
}

// drop deletes a database that no session has open.
func (r *registry) drop(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.dbs[name]; ok {
		return fmt.Errorf("%w: %s", errDatabaseInUse, name)
	}
	return engine.Drop(name, r.cfg)
}

func (r *registry) closeAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, s := range r.dbs {
		if err := s.do(func(db *engine.Database) error { return db.Close() }); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(r.dbs, name)
	}
	return errors.Join(errs...)
}
