package main

import (
	"github.com/spf13/cobra"

	"github.com/fynrae/zalopatch/internal/messages"
	"github.com/fynrae/zalopatch/internal/report"
)

func newRestoreCmd() *cobra.Command {
	var (
		baseDir    string
		configPath string
	)

	cmd := &cobra.Command{
		Use:          messages.RestoreUse,
		Short:        messages.RestoreShort,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(configPath, baseDir)
			if err != nil {
				return err
			}
			rep := report.New(cmd.OutOrStdout())
			orch := newOrchestrator(cfg, rep)
			return orch.Restore()
		},
	}

	cmd.Flags().StringVar(&baseDir, "base-dir", "", messages.RootFlagBaseDir)
	cmd.Flags().StringVar(&configPath, "config", "", messages.RootFlagConfig)
	return cmd
}
