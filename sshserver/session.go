package sshserver

import (
	"context"
	"time"

	gliderssh "github.com/gliderlabs/ssh"

	"pkt.systems/pslog"

	"pkt.systems/termline/caps"
	"pkt.systems/termline/core"
	"pkt.systems/termline/editor"
	"pkt.systems/termline/internal/diag"
	"pkt.systems/termline/schema"
)

// editorSession binds one SSH channel to an editor session. Capabilities
// come from the advertised TERM and window size; bytes and window changes
// flow through an sshSource.
type editorSession struct {
	sess       gliderssh.Session
	prompt     string
	historyMax int
	escapeWait time.Duration
	log        pslog.Logger
}

func newEditorSession(sess gliderssh.Session, prompt string, historyMax int, escapeWait time.Duration, log pslog.Logger) *editorSession {
	return &editorSession{
		sess:       sess,
		prompt:     prompt,
		historyMax: historyMax,
		escapeWait: escapeWait,
		log:        log,
	}
}

func (e *editorSession) Run(ctx context.Context, pty gliderssh.Pty, winCh <-chan gliderssh.Window) error {
	remoteCaps := caps.FromTerm(pty.Term, pty.Window.Width, pty.Window.Height)
	e.log.Info("editor session start", "term", pty.Term,
		"family", remoteCaps.Family.String(), "width", remoteCaps.Width, "height", remoteCaps.Height)

	src := newSSHSource(ctx, e.sess, winCh, remoteCaps.Width, remoteCaps.Height)
	sess := editor.New(e.sess, src, remoteCaps, e.prompt, core.SessionDeps{
		History: core.NewHistory(e.historyMax),
		Logger:  e.log,
	})
	var report diag.Reporter
	report.Attach(diag.LogSink{Logger: e.log, MinSeverity: schema.SeverityWarning})
	sess.SetReporter(&report)
	sess.SetEscapeTimeout(e.escapeWait)
	return sess.Run(ctx)
}
