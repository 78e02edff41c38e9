package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/termline/internal/appconfig"
	"pkt.systems/termline/internal/logx"
)

func newInitCmd() *cobra.Command {
	var outputPath string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logx.Ctx(cmd.Context())
			path, err := appconfig.WriteDefault(outputPath, overwrite)
			if err != nil {
				return err
			}
			logger.Info("config written", "path", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "config file path")
	cmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing file")
	return cmd
}
