package server

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.pagestore/internal/auth"
	"go.pagestore/internal/config"
	"go.pagestore/internal/logger"
)

type Server struct {
	cfg  *config.Config
	auth *auth.Authenticator
	reg  *registry
	log  *logger.Logger

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	store, err := auth.NewFileStore(cfg.UserFile)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:   cfg,
		auth:  auth.NewAuthenticator(store),
		reg:   newRegistry(cfg, log),
		log:   log,
		conns: make(map[net.Conn]struct{}),
	}, nil
}

// Listen opens the configured address, with TLS when a certificate is configured, and
// serves until ctx is cancelled.
func (s *Server) Listen(ctx context.Context) error {
	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to start TCP listener: %w", err)
	}

	if s.cfg.TLSEnabled() {
		cert, err := tls.LoadX509KeyPair(s.cfg.TLSCert, s.cfg.TLSKey)
		if err != nil {
			_ = l.Close()
			return fmt.Errorf("failed to load TLS certificate: %w", err)
		}

		l = tls.NewListener(l, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})
		s.log.Infof("TLS enabled")
	}

	s.log.Infof("listening on %s", l.Addr())
	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is cancelled or l is closed, then closes the
// listener, every client connection and every open database.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		s.log.Infof("server shutting down")
		_ = l.Close()
		s.closeConns()
		return nil
	})

	g.Go(func() error {
		defer cancel()
		for {
			conn, err := l.Accept()
			if err != nil {
				if gctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return nil
				}
				return fmt.Errorf("accept: %w", err)
			}

			if !s.track(conn) {
				_ = conn.Close()
				return nil
			}
			g.Go(func() error {
				s.handleConn(conn)
				return nil
			})
		}
	})

	err := g.Wait()
	return errors.Join(err, s.reg.closeAll())
}

// track registers conn for shutdown. It refuses once shutdown has started.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conns != nil {
		delete(s.conns, conn)
	}
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		_, _ = conn.Write([]byte("\nServer shutting down...\n"))
		_ = conn.Close()
	}
	s.conns = nil
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	defer s.untrack(conn)

	sess := &Session{}
	defer func() {
		if err := sess.CloseDB(s.reg); err != nil {
			s.log.Errorf("close %s: %v", conn.RemoteAddr(), err)
		}
	}()

	s.log.Debugf("connection from %s", conn.RemoteAddr())
	reader := bufio.NewScanner(conn)
	w := bufio.NewWriter(conn)

	write := func(m Msg) bool {
		_, _ = w.WriteString(string(m))
		return w.Flush() == nil
	}

	if !write(Prompt) {
		return
	}

	for reader.Scan() {
		resp := s.exec(sess, reader.Text())

		if !write(resp.Msg + "\n") {
			return
		}
		if resp.Close {
			return
		}
		if !write(Prompt) {
			return
		}
	}
}

func (s *Server) exec(sess *Session, line string) Response {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Respond("")
	}

	switch strings.ToUpper(parts[0]) {
	case "AUTH":
		return s.authCommand(sess, parts)
	case "OPEN":
		return s.openDBCommand(sess, parts)
	case "SET":
		return s.setCommand(sess, parts)
	case "GET":
		return s.getCommand(sess, parts)
	case "DEL":
		return s.delCommand(sess, parts)
	case "CLOSE":
		return s.closeDBCommand(sess)
	case "EXIT":
		return s.exitCommand(sess)
	case "CREATEUSER":
		return s.createUserCommand(sess, parts)
	case "DELUSER":
		return s.delUserCommand(sess, parts)
	case "GRANTDB":
		return s.grantDBCommand(sess, parts)
	case "REVOKEDB":
		return s.revokeDBCommand(sess, parts)
	case "CREATEDB":
		return s.createDBCommand(sess, parts)
	case "DROPDB":
		return s.dropDBCommand(sess, parts)
	default:
		return Err(Msg("Unknown command " + parts[0]))
	}
}
