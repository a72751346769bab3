// Package cli is the command-line entry point of the search harness.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"ui_automation/application/scenario"
	"ui_automation/infrastructure/config"
	"ui_automation/infrastructure/storage"
	"ui_automation/presentation/terminal"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	driver     string
	baseURL    string
	headed     bool
	logLevel   string
}

func (f *rootFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.driver != "" {
		cfg.Driver = f.driver
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.headed {
		cfg.Headless = false
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewRootCommand - builds the command tree
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "searchharness",
		Short:         "Drive and verify searchable dropdown fields in a browser",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to a TOML config file")
	root.PersistentFlags().StringVar(&flags.driver, "driver", "", "browser backend: playwright, chromedp, rod, selenium or simulated")
	root.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "base URL scenario paths are joined onto")
	root.PersistentFlags().BoolVar(&flags.headed, "headed", false, "show the browser window")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "trace, debug, info, warn or error")

	root.AddCommand(newRunCommand(flags), newReplCommand(flags), newJournalsCommand(flags))
	return root
}

func newRunCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Run scenario files and report pass/fail",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios := make([]*scenario.Scenario, 0, len(args))
			for _, path := range args {
				sc, err := scenario.Load(path)
				if err != nil {
					return err
				}
				scenarios = append(scenarios, sc)
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			failed := 0
			for _, sc := range scenarios {
				a.seed(sc.Fixtures)
				journal, err := a.runner.Run(ctx, sc)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s (%s): %v\n", sc.Name, journal.ID, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "PASS %s (%s, %d steps)\n", sc.Name, journal.ID, len(journal.Steps))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
			}
			return nil
		},
	}
}

func newReplCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Drive fields interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			term := terminal.NewTerminalInterface(a.runner, a.seed, a.logger, cmd.InOrStdin(), cmd.OutOrStdout())
			return term.Run(cmd.Context())
		},
	}
}

func newJournalsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "journals [id]",
		Short: "List stored run journals, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.NewJournalStore(cfg.JournalDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				ids, err := store.ListJournals()
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			journal, err := store.LoadJournal(args[0])
			if err != nil {
				return err
			}
			status := "PASS"
			if !journal.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(out, "%s %s  %s\n", status, journal.Scenario, journal.FinishedAt.Sub(journal.StartedAt))
			for i, step := range journal.Steps {
				line := fmt.Sprintf("%3d %-20s %s %s", i+1, step.Action, step.Selector, step.Text)
				if step.Error != "" {
					line += "  ! " + step.Error
				}
				fmt.Fprintln(out, line)
			}
			if journal.Error != "" {
				fmt.Fprintf(out, "error: %s\n", journal.Error)
			}
			return nil
		},
	}
}

// Execute - runs the root command with a background context
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}
