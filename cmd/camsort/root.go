package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/backmassage/camsort/internal/config"
	"github.com/backmassage/camsort/internal/display"
	"github.com/backmassage/camsort/internal/logging"
	"github.com/backmassage/camsort/internal/report"
)

func newRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "camsort",
		Short: "Organize camera media into buckets, multicam groups and timelapses",
		Long: `camsort sorts a folder of photos, audio and video by the device that recorded
them, links videos captured at the same moment by different cameras, and turns
timelapse photo runs into cleaned-up videos.

Settings come from flags, then --config (.yaml or .toml), then CAMSORT_*
environment variables (a .env file is loaded if present), then defaults.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	config.BindFlags(cmd.PersistentFlags(), &defaults)

	cmd.AddCommand(newRunCmd(), newTimelapseCmd(), newCheckCmd())
	return cmd
}

// setup loads the effective config for cmd, validates it (and root when
// given), opens the logger and prints the banner. The caller closes the
// logger.
func setup(cmd *cobra.Command, root string) (*config.Config, *logging.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cmd.Flags(), configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if root != "" {
		cfg.Root = config.NormalizeDirArg(root)
		if err := cfg.ValidateRoot(); err != nil {
			return nil, nil, err
		}
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return nil, nil, err
	}
	display.PrintBanner(os.Stdout, version)
	return &cfg, log, nil
}

// finish writes the report when requested and turns recorded failures into
// the command error.
func finish(cfg *config.Config, log *logging.Logger, rep *report.Report, runErr error) error {
	if cfg.ReportFile != "" && rep != nil {
		if err := rep.WriteFile(cfg.ReportFile); err != nil {
			log.Error("Cannot write report: %v", err)
		} else {
			log.Info("Report: %s", cfg.ReportFile)
		}
	}
	if runErr != nil {
		return runErr
	}
	if n := rep.Failures(); n > 0 {
		return fmt.Errorf("%s failed", display.Plural(n, "operation"))
	}
	return nil
}
