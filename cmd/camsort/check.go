package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/camsort/internal/check"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether ffprobe, ffmpeg and the H.264 encoders work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, "")
			if err != nil {
				return err
			}
			defer log.Close()

			if failed := check.RunCheck(cmd.Context(), cfg, log); failed > 0 {
				return fmt.Errorf("%d checks failed", failed)
			}
			return nil
		},
	}
}
