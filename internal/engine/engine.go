package engine

import (
	"fmt"

	"go.pagestore/internal/logger"
	"go.pagestore/internal/storage"
)

// Engine maps string keys onto a storage collection. It is single-threaded like the
// collection underneath; callers sharing one serialise access themselves.
type Engine struct {
	coll *storage.Collection
	log  *logger.Logger
}

func NewEngine(coll *storage.Collection, log *logger.Logger) *Engine {
	return &Engine{
		coll: coll,
		log:  log,
	}
}

func (e *Engine) Set(key string, value []byte) error {
	if err := e.coll.Put([]byte(key), value); err != nil {
		e.log.Errorf("set %q: %v", key, err)
		return fmt.Errorf("set %q: %w", key, err)
	}
	e.log.Debugf("set %q (%d bytes)", key, len(value))
	return nil
}

func (e *Engine) Get(key string) ([]byte, error) {
	item, err := e.coll.Find([]byte(key))
	if err != nil {
		e.log.Errorf("get %q: %v", key, err)
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %q", storage.ErrKeyNotFound, key)
	}
	return item.Value, nil
}

func (e *Engine) Delete(key string) error {
	if err := e.coll.Remove([]byte(key)); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	e.log.Debugf("deleted %q", key)
	return nil
}
