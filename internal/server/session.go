package server

import (
	"go.pagestore/internal/auth"
)

// Session is the per-connection state: who is logged in and which database is open.
type Session struct {
	user   *auth.User
	db     *sharedDB
	dbName string
}

func (s *Session) IsAuth() bool {
	return s.user != nil
}

func (s *Session) HasDB() bool {
	return s.db != nil
}

// CloseDB drops the session's reference to its database; the registry closes the file once
// no session holds it.
func (s *Session) CloseDB(reg *registry) error {
	if s.db == nil {
		return nil
	}

	name := s.dbName
	s.db = nil
	s.dbName = ""
	return reg.release(name)
}
