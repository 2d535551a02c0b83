package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fynrae/zalopatch/internal/config"
	"github.com/fynrae/zalopatch/internal/messages"
	"github.com/fynrae/zalopatch/internal/patcher"
	"github.com/fynrae/zalopatch/internal/report"
)

var newOrchestrator = patcher.New

var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func newRootCmd() *cobra.Command {
	var (
		yes        bool
		dryRun     bool
		baseDir    string
		strategy   string
		configPath string
	)

	cmd := &cobra.Command{
		Use:          messages.RootUse,
		Short:        messages.RootShort,
		Long:         messages.RootLong,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(configPath, baseDir)
			if err != nil {
				return err
			}
			if strategy != "" {
				cfg.Strategy = config.Strategy(strategy)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			rep := report.New(cmd.OutOrStdout())
			if !yes && !dryRun {
				if err := confirmClosed(cmd, rep); err != nil {
					return err
				}
			}

			orch := newOrchestrator(cfg, rep)
			orch.DryRun = dryRun
			outcome, err := orch.Run(cmd.Context())
			if err != nil {
				rep.Errorf("%v", err)
				return &SilentExitError{Code: outcome.ExitCode()}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.RootFlagYes)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, messages.RootFlagDryRun)
	cmd.Flags().StringVar(&baseDir, "base-dir", "", messages.RootFlagBaseDir)
	cmd.Flags().StringVar(&strategy, "strategy", "", messages.RootFlagStrategy)
	cmd.Flags().StringVar(&configPath, "config", "", messages.RootFlagConfig)

	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newRestoreCmd())
	return cmd
}

// resolveConfig loads the optional config file and applies the base-dir
// override.
func resolveConfig(configPath string, baseDir string) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if baseDir != "" {
		cfg.BaseDir = baseDir
	}
	return cfg, nil
}

// confirmClosed warns that Zalo must be stopped and, on an interactive
// terminal, asks for confirmation before mutating the installation.
func confirmClosed(cmd *cobra.Command, rep *report.Reporter) error {
	rep.Importantf(messages.PatchImportantNotice)
	if !isTerminal() {
		return nil
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), messages.PatchConfirmPrompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	}
	return errors.New(messages.PatchDeclined)
}
