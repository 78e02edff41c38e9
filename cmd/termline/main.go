package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"

	"pkt.systems/termline/tty"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	// Last-resort cooked-mode restore. Runs on normal returns and on
	// panics that unwind past the command's own defers.
	defer tty.EmergencyRestore()

	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("termline command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "termline",
		Short:         "Terminal line editor with a local and an SSH frontend",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newEditCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCapsCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	return root
}
