package main

import (
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/termline/internal/appconfig"
	"pkt.systems/termline/internal/logx"
	"pkt.systems/termline/sshserver"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the line editor over SSH",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logx.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.SSH.Addr = addr
			}
			logger.Info("serve config", "addr", cfg.SSH.Addr, "host_key", cfg.SSH.HostKeyPath,
				"history_max", cfg.Editor.HistoryMax)

			srv := &sshserver.Server{
				Addr:          cfg.SSH.Addr,
				HostKeyPath:   cfg.SSH.HostKeyPath,
				Prompt:        cfg.Prompt,
				HistoryMax:    cfg.Editor.HistoryMax,
				EscapeTimeout: time.Duration(cfg.Editor.EscapeTimeoutMs) * time.Millisecond,
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address override")
	return cmd
}
