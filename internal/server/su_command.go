package server

import (
	"go.pagestore/internal/auth"
	"go.pagestore/internal/config"
)

// superuser gates the administrative commands.
func superuser(sess *Session) (Response, bool) {
	if !sess.IsAuth() {
		return Err(NoAuth), false
	}
	if !sess.user.IsSuperuser() {
		return Err(NoPerm), false
	}
	return Response{}, true
}

func (s *Server) createUserCommand(sess *Session, parts []string) Response {
	if resp, ok := superuser(sess); !ok {
		return resp
	}

	if len(parts) != 4 {
		return Usage("CREATEUSER <username> <password> <role>")
	}

	role, err := auth.ParseRole(parts[3])
	if err != nil {
		return Err(Msg(err.Error()))
	}

	if _, err := auth.CreateUser(s.auth.Store(), parts[1], parts[2], role); err != nil {
		return Err(Msg(err.Error()))
	}

	s.log.Infof("%s created user %s (%s)", sess.user.Username, parts[1], role)
	return Respond(OK)
}

func (s *Server) delUserCommand(sess *Session, parts []string) Response {
	if resp, ok := superuser(sess); !ok {
		return resp
	}

	if len(parts) != 2 {
		return Usage("DELUSER <username>")
	}

	if parts[1] == sess.user.Username {
		return Err("Cannot delete the current user")
	}

	if err := s.auth.Store().DeleteUser(parts[1]); err != nil {
		return Err(Msg(err.Error()))
	}

	s.log.Infof("%s deleted user %s", sess.user.Username, parts[1])
	return Respond(OK)
}

func (s *Server) grantDBCommand(sess *Session, parts []string) Response {
	if resp, ok := superuser(sess); !ok {
		return resp
	}

	if len(parts) != 3 {
		return Usage("GRANTDB <user> <dbname>")
	}

	u, err := s.auth.Store().GetUser(parts[1])
	if err != nil {
		return Err(Msg(err.Error()))
	}

	if u.Grant(parts[2]) {
		if err := s.auth.Store().SaveUser(u); err != nil {
			return Err(Msg(err.Error()))
		}
	}

	return Respond(OK)
}

func (s *Server) revokeDBCommand(sess *Session, parts []string) Response {
	if resp, ok := superuser(sess); !ok {
		return resp
	}

	if len(parts) != 3 {
		return Usage("REVOKEDB <user> <dbname>")
	}

	u, err := s.auth.Store().GetUser(parts[1])
	if err != nil {
		return Err(Msg(err.Error()))
	}

	if u.Revoke(parts[2]) {
		if err := s.auth.Store().SaveUser(u); err != nil {
			return Err(Msg(err.Error()))
		}
	}

	return Respond(OK)
}

func (s *Server) createDBCommand(sess *Session, parts []string) Response {
	if resp, ok := superuser(sess); !ok {
		return resp
	}

	if len(parts) != 2 {
		return Usage("CREATEDB <dbname>")
	}

	if err := config.ValidateDBName(parts[1]); err != nil {
		return Err(Msg(err.Error()))
	}
	if err := s.reg.create(parts[1]); err != nil {
		return Err(Msg(err.Error()))
	}

	return Respond(OK)
}

func (s *Server) dropDBCommand(sess *Session, parts []string) Response {
	if resp, ok := superuser(sess); !ok {
		return resp
	}

	if len(parts) != 2 {
		return Usage("DROPDB <dbname>")
	}

	if err := s.reg.drop(parts[1]); err != nil {
		return Err(Msg(err.Error()))
	}

	return Respond(OK)
}
