package main

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/camsort/internal/check"
	"github.com/backmassage/camsort/internal/pipeline"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <root>",
		Short: "Classify, group, isolate, filter and assemble everything under root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, args[0])
			if err != nil {
				return err
			}
			defer log.Close()

			ctx := cmd.Context()
			log.Info("Root: %s", cfg.Root)
			if cfg.DryRun {
				log.Warn("DRY RUN: nothing will be moved, linked, rotated or encoded")
			}
			if err := check.CheckDeps(ctx, cfg); err != nil {
				log.Error("%v", err)
				return err
			}

			rep, err := pipeline.Run(ctx, cfg, log, pipeline.DefaultDeps(ctx, cfg))
			return finish(cfg, log, rep, err)
		},
	}
}
