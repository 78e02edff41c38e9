package sshserver

import (
	"context"
	"io"
	"net"
	"time"

	gliderssh "github.com/gliderlabs/ssh"

	"pkt.systems/pslog"

	"pkt.systems/termline/internal/logx"
)

// Server exposes the line editor over SSH. Every session gets its own
// editing state, history ring and painter, driven by the channel's pty.
type Server struct {
	Addr          string
	HostKeyPath   string
	Prompt        string
	HistoryMax    int
	EscapeTimeout time.Duration
	Listener      net.Listener
	logger        pslog.Logger
}

// ListenAndServe starts the SSH server and shuts down on context
// cancellation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.Prompt == "" {
		s.Prompt = "> "
	}
	if s.logger == nil {
		s.logger = logx.WithComponent(ctx, "sshserver")
	}

	signer, err := EnsureHostKey(s.HostKeyPath)
	if err != nil {
		return err
	}

	server := &gliderssh.Server{
		Addr:    s.Addr,
		Handler: s.handleSession,
	}
	server.AddHostKey(signer)

	s.logger.Info("ssh server listening", "addr", s.Addr)

	errCh := make(chan error, 1)
	go func() {
		if s.Listener != nil {
			errCh <- server.Serve(s.Listener)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		_ = server.Close()
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleSession(sess gliderssh.Session) {
	log := s.logger
	if log == nil {
		log = pslog.Ctx(sess.Context())
	}
	remote := sess.RemoteAddr().String()
	log = log.With("user", sess.User(), "remote", remote)
	if id := sess.Context().SessionID(); id != "" {
		log = log.With("ssh_session", id)
	}

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "pty required\n")
		_ = sess.Exit(1)
		return
	}

	log.Info("ssh session opened", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)
	ed := newEditorSession(sess, s.Prompt, s.HistoryMax, s.EscapeTimeout, log)
	if err := ed.Run(sess.Context(), pty, winCh); err != nil {
		log.Warn("ssh session error", "err", err)
	}
	log.Info("ssh session closed")
}
