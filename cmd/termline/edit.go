package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/termline/caps"
	"pkt.systems/termline/core"
	"pkt.systems/termline/editor"
	"pkt.systems/termline/internal/appconfig"
	"pkt.systems/termline/internal/diag"
	"pkt.systems/termline/internal/logx"
	"pkt.systems/termline/schema"
	"pkt.systems/termline/tty"
)

func newEditCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Run the line editor on the local terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logx.WithComponent(cmd.Context(), "editor")
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}

			term, err := tty.Open()
			if err != nil {
				return err
			}
			defer func() { _ = term.Close() }()

			snapshot := caps.Detect()
			snapshot.Width, snapshot.Height = term.Size()
			applyDisplayOverrides(&snapshot, cfg.Display)
			logger.Debug("terminal capabilities", "family", snapshot.Family.String(),
				"colors", snapshot.Colors.String(), "width", snapshot.Width, "height", snapshot.Height)

			if err := term.EnterRawMode(); err != nil {
				return err
			}
			defer func() { _ = term.ExitRawMode() }()

			sess := editor.New(os.Stdout, term, snapshot, cfg.Prompt, core.SessionDeps{
				History: core.NewHistory(cfg.Editor.HistoryMax),
				Logger:  logger,
			})
			var report diag.Reporter
			report.Attach(diag.LogSink{Logger: logger, MinSeverity: schema.SeverityWarning})
			sess.SetReporter(&report)
			sess.SetEscapeTimeout(time.Duration(cfg.Editor.EscapeTimeoutMs) * time.Millisecond)
			return sess.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	return cmd
}

// applyDisplayOverrides folds config overrides into a detected snapshot.
// Values were validated at load time; unknown depths pass through.
func applyDisplayOverrides(c *schema.Capabilities, d appconfig.DisplayConfig) {
	switch d.ForceColorDepth {
	case "none":
		c.Colors = schema.ColorNone
	case "16":
		c.Colors = schema.Color16
	case "256":
		c.Colors = schema.Color256
	case "truecolor":
		c.Colors = schema.ColorTrue
	}
	if d.NoAttributes {
		c.Attrs = schema.AttrSupport{}
		c.Optimizations |= schema.OptMinimalAttrs
	}
}
