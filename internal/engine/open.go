package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.pagestore/internal/config"
	"go.pagestore/internal/logger"
	"go.pagestore/internal/storage"
)

var (
	ErrDatabaseExists   = errors.New("database already exists")
	ErrDatabaseNotFound = errors.New("database does not exist")
)

// Open opens the named database under cfg.DataDir, creating it when missing, and logs to
// its own file under cfg.LogDir.
func Open(dbname string, cfg *config.Config) (*Database, error) {
	if err := config.ValidateDBName(dbname); err != nil {
		return nil, err
	}

	logPath := cfg.LogFile(dbname)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log := logger.New(logFile, cfg.Level())

	db, err := OpenPath(cfg.DatabaseFile(dbname), cfg.StorageOptions(), log)
	if err != nil {
		log.Errorf("open %s: %v", dbname, err)
		_ = logFile.Close()
		return nil, err
	}

	db.logFile = logFile
	return db, nil
}

// OpenPath opens the database file at path directly. log may be nil.
func OpenPath(path string, opts storage.Options, log *logger.Logger) (*Database, error) {
	dal, err := storage.Open(path, opts, log)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	coll := storage.NewCollection([]byte(filepath.Base(path)), dal)

	return &Database{
		dal:    dal,
		engine: NewEngine(coll, log),
		log:    log,
	}, nil
}

// Create initialises a new named database and closes it again.
func Create(dbname string, cfg *config.Config) error {
	if err := config.ValidateDBName(dbname); err != nil {
		return err
	}
	if _, err := os.Stat(cfg.DatabaseFile(dbname)); err == nil {
		return fmt.Errorf("%w: %s", ErrDatabaseExists, dbname)
	}

	db, err := Open(dbname, cfg)
	if err != nil {
		return err
	}
	return db.Close()
}

// Exists reports whether the named database file is present.
func Exists(dbname string, cfg *config.Config) bool {
	if config.ValidateDBName(dbname) != nil {
		return false
	}
	_, err := os.Stat(cfg.DatabaseFile(dbname))
	return err == nil
}

// Drop removes the named database directory and its log file.
func Drop(dbname string, cfg *config.Config) error {
	if !Exists(dbname, cfg) {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbname)
	}

	if err := os.RemoveAll(filepath.Dir(cfg.DatabaseFile(dbname))); err != nil {
		return fmt.Errorf("remove %s: %w", dbname, err)
	}
	if err := os.Remove(cfg.LogFile(dbname)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove log for %s: %w", dbname, err)
	}
	return nil
}
