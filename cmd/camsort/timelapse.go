package main

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/camsort/internal/check"
	"github.com/backmassage/camsort/internal/pipeline"
)

func newTimelapseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timelapse <folder>",
		Short: "Filter and assemble the timelapse_* folders under folder, or folder itself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, args[0])
			if err != nil {
				return err
			}
			defer log.Close()

			ctx := cmd.Context()
			if err := check.CheckAssembler(ctx, cfg); err != nil {
				log.Error("%v", err)
				return err
			}
			rep, err := pipeline.RunTimelapse(ctx, cfg, log, pipeline.DefaultDeps(ctx, cfg), cfg.Root)
			return finish(cfg, log, rep, err)
		},
	}
}
