package server

import (
	"errors"

	"go.pagestore/internal/config"
	"go.pagestore/internal/engine"
	"go.pagestore/internal/storage"
)

func (s *Server) authCommand(sess *Session, parts []string) Response {
	if len(parts) != 3 {
		return Usage("AUTH <username> <password>")
	}

	u, err := s.auth.Authenticate(parts[1], parts[2])
	if err != nil {
		s.log.Warnf("failed login for %s", parts[1])
		return Err(Msg(err.Error()))
	}

	// A different user must not inherit the previous user's database.
	if sess.user != nil && sess.user.Username != u.Username {
		_ = sess.CloseDB(s.reg)
	}

	sess.user = u
	s.log.Infof("%s authenticated", u.Username)
	return Respond(OK)
}

func (s *Server) openDBCommand(sess *Session, parts []string) Response {
	if !sess.IsAuth() {
		return Err(NoAuth)
	}

	if len(parts) != 2 {
		return Usage("OPEN <dbname>")
	}

	name := parts[1]
	if err := config.ValidateDBName(name); err != nil {
		return Err(Msg(err.Error()))
	}
	if !sess.user.CanOpenDB(name) {
		return Err(NoPerm)
	}

	db, err := s.reg.acquire(name)
	if err != nil {
		return Err(Msg(err.Error()))
	}

	if err := sess.CloseDB(s.reg); err != nil {
		s.log.Errorf("close %s: %v", sess.dbName, err)
	}
	sess.db = db
	sess.dbName = name
	return Respond(OK)
}

func (s *Server) closeDBCommand(sess *Session) Response {
	if !sess.HasDB() {
		return Err(NoDB)
	}
	if err := sess.CloseDB(s.reg); err != nil {
		return Err(Msg(err.Error()))
	}
	return Respond(OK)
}

func (s *Server) setCommand(sess *Session, parts []string) Response {
	if !sess.HasDB() {
		return Err(NoDB)
	}

	if len(parts) != 3 {
		return Usage("SET <key> <val>")
	}

	if !sess.user.CanWrite(sess.dbName) {
		return Err(NoPerm)
	}

	err := sess.db.do(func(db *engine.Database) error {
		return db.Set(parts[1], []byte(parts[2]))
	})
	if err != nil {
		return Err(Msg(err.Error()))
	}

	return Respond(OK)
}

func (s *Server) getCommand(sess *Session, parts []string) Response {
	if !sess.HasDB() {
		return Err(NoDB)
	}

	if len(parts) != 2 {
		return Usage("GET <key>")
	}

	var val []byte
	err := sess.db.do(func(db *engine.Database) error {
		var err error
		val, err = db.Get(parts[1])
		return err
	})
	if errors.Is(err, storage.ErrKeyNotFound) {
		return Respond(NoKey)
	}
	if err != nil {
		return Err(Msg(err.Error()))
	}

	return Respond(Msg(val))
}

func (s *Server) delCommand(sess *Session, parts []string) Response {
	if !sess.HasDB() {
		return Err(NoDB)
	}

	if len(parts) != 2 {
		return Usage("DEL <key>")
	}

	if !sess.user.CanWrite(sess.dbName) {
		return Err(NoPerm)
	}

	err := sess.db.do(func(db *engine.Database) error {
		return db.Delete(parts[1])
	})
	if err != nil {
		return Err(Msg(err.Error()))
	}

	return Respond(OK)
}

func (s *Server) exitCommand(sess *Session) Response {
	if err := sess.CloseDB(s.reg); err != nil {
		s.log.Errorf("close on exit: %v", err)
	}
	return Bye()
}
