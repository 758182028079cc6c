package engine

import (
	"errors"
	"fmt"
	"io"

	"go.pagestore/internal/logger"
	"go.pagestore/internal/storage"
)

type Database struct {
	dal     *storage.DataAccessLayer
	engine  *Engine
	log     *logger.Logger
	logFile io.Closer
}

func (db *Database) Path() string {
	return db.dal.Path()
}

func (db *Database) Set(key string, val []byte) error {
	return db.engine.Set(key, val)
}

func (db *Database) Get(key string) ([]byte, error) {
	return db.engine.Get(key)
}

func (db *Database) Delete(key string) error {
	return db.engine.Delete(key)
}

// Info describes the file layout and tree shape of a database.
type Info struct {
	Path          string
	PageSize      int
	Root          storage.PageNum
	FreeListPage  storage.PageNum
	MaxPage       storage.PageNum
	ReleasedPages []storage.PageNum
	Tree          storage.Stats
}

func (db *Database) Inspect() (*Info, error) {
	stats, err := db.engine.coll.Stats()
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", db.Path(), err)
	}

	meta := db.dal.Meta()
	fl := db.dal.FreeList()
	return &Info{
		Path:          db.Path(),
		PageSize:      db.dal.PageSize(),
		Root:          meta.Root,
		FreeListPage:  meta.FreeListPage,
		MaxPage:       fl.MaxPage(),
		ReleasedPages: fl.ReleasedPages(),
		Tree:          stats,
	}, nil
}

// Close flushes and closes the database file, then the log file if the database owns one.
func (db *Database) Close() error {
	err := db.dal.Close()
	if err != nil {
		db.log.Errorf("close %s: %v", db.Path(), err)
	} else {
		db.log.Infof("closed %s", db.Path())
	}

	if db.logFile != nil {
		err = errors.Join(err, db.logFile.Close())
		db.logFile = nil
	}
	return err
}
