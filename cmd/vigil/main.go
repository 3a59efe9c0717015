package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vigil/internal/bootstrap"
	sessiondto "vigil/internal/modules/session/dto"
	"vigil/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var basePath string

	root := &cobra.Command{
		Use:           "vigil",
		Short:         "Focus timer with verified completions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&basePath, "base", ".", "data directory")

	root.AddCommand(newTUICmd(&basePath))
	root.AddCommand(newStartCmd(&basePath))
	root.AddCommand(newStatusCmd(&basePath))
	root.AddCommand(newAdjustCmd(&basePath))
	root.AddCommand(newSubmitCmd(&basePath))
	root.AddCommand(newCancelCmd(&basePath))
	root.AddCommand(newHistoryCmd(&basePath))
	root.AddCommand(newAchievementsCmd(&basePath))
	root.AddCommand(newAlertCmd(&basePath))
	return root
}

func loadApp(basePath string) (*bootstrap.App, error) {
	cfg, err := config.New(basePath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(basePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run vigil terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			if _, err := app.SessionCLI.Restore(context.Background()); err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newStartCmd(basePath *string) *cobra.Command {
	var category string
	var minutes int

	start := &cobra.Command{
		Use:   "start --category <name> --minutes <n>",
		Short: "Start a focus session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(category) == "" {
				return fmt.Errorf("--category is required")
			}
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			if _, err := app.SessionCLI.Restore(context.Background()); err != nil {
				return err
			}
			out, err := app.SessionCLI.Start(context.Background(), category, minutes*60)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session started: %s category=%s ends=%s\n", out.SessionID, out.Category, out.EndsAt.Format(time.RFC3339))
			return nil
		},
	}
	start.Flags().StringVar(&category, "category", "", "session category: work|study|exercise|mindfulness|rest")
	start.Flags().IntVar(&minutes, "minutes", 25, "planned duration in minutes")
	return start
}

func newStatusCmd(basePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			status, err := app.SessionCLI.Restore(context.Background())
			if err != nil {
				return err
			}
			if status.State == "idle" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no active session")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s category=%s state=%s remaining=%s\n", status.SessionID, status.Category, status.State, formatSeconds(status.RemainingSeconds))
			if status.Prompt != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), status.Prompt)
			}
			return nil
		},
	}
}

func newAdjustCmd(basePath *string) *cobra.Command {
	var minutes int

	adjust := &cobra.Command{
		Use:   "adjust --minutes <delta>",
		Short: "Add or remove minutes on the running session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if minutes == 0 {
				return fmt.Errorf("--minutes must be non-zero")
			}
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			if _, err := app.SessionCLI.Restore(context.Background()); err != nil {
				return err
			}
			status, err := app.SessionCLI.Adjust(context.Background(), minutes)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s state=%s remaining=%s\n", status.SessionID, status.State, formatSeconds(status.RemainingSeconds))
			return nil
		},
	}
	adjust.Flags().IntVar(&minutes, "minutes", 0, "minutes to add (negative to remove)")
	return adjust
}

func newSubmitCmd(basePath *string) *cobra.Command {
	var failed bool

	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit the verification result for an expired session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			if _, err := app.SessionCLI.Restore(context.Background()); err != nil {
				return err
			}
			out, err := app.SessionCLI.Submit(context.Background(), !failed)
			if err != nil {
				return err
			}
			printResolved(cmd, out)
			return nil
		},
	}
	submit.Flags().BoolVar(&failed, "failed", false, "record the verification as failed")
	return submit
}

func newCancelCmd(basePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			if _, err := app.SessionCLI.Restore(context.Background()); err != nil {
				return err
			}
			out, err := app.SessionCLI.Cancel(context.Background())
			if err != nil {
				return err
			}
			printResolved(cmd, out)
			return nil
		},
	}
}

func newHistoryCmd(basePath *string) *cobra.Command {
	var limit int

	history := &cobra.Command{
		Use:   "history",
		Short: "List finished sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			entries, err := app.SessionCLI.History(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, entry := range entries {
				credit := "-"
				if entry.Credited {
					credit = fmt.Sprintf("+%dmin", entry.CreditedMinutes)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", entry.StartedAt.Format("2006-01-02 15:04"), entry.Category, entry.State, formatSeconds(entry.PlannedSeconds), credit)
			}
			return nil
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "maximum entries")
	return history
}

func newAchievementsCmd(basePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "Show achievement progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			if _, err := app.AchievementCLI.ApplyWeeklyReset(context.Background()); err != nil {
				return err
			}
			categories, err := app.AchievementCLI.List(context.Background())
			if err != nil {
				return err
			}
			for _, c := range categories {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-16s level %d/%d (%.0f%%)", c.Title, c.Level, c.MaxLevel, c.Progress)
				if c.UnitsToNext > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " next in %d", c.UnitsToNext)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func newAlertCmd(basePath *string) *cobra.Command {
	alert := &cobra.Command{Use: "alert", Short: "Alert provider operations"}

	alert.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List alert provider manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			providers, err := app.AlertCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(providers) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no alert providers configured")
				return nil
			}
			for _, p := range providers {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s\n", p.Name, p.Version, p.Enabled, p.Binary)
			}
			return nil
		},
	})

	alert.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate alert provider checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			results, err := app.AlertCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no alert providers configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})

	var message string
	test := &cobra.Command{
		Use:   "test",
		Short: "Send a test pulse to every enabled provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*basePath)
			if err != nil {
				return err
			}
			out, err := app.AlertCLI.Pulse(context.Background(), message, "")
			if err != nil {
				return err
			}
			if len(out.Results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no enabled alert providers")
				return nil
			}
			for _, result := range out.Results {
				if result.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s failed: %s\n", result.Plugin, result.Error)
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", result.Plugin)
			}
			return nil
		},
	}
	test.Flags().StringVar(&message, "message", "test alert", "pulse message")
	alert.AddCommand(test)
	return alert
}

func printResolved(cmd *cobra.Command, out sessiondto.ResolveOutput) {
	credit := "no credit"
	if out.Credited {
		credit = fmt.Sprintf("+%d minutes", out.CreditedMinutes)
	}
	// Unlocks are announced by the sink wired in bootstrap; repeating
	// them here would double the output.
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s: %s (%s)\n", out.State, out.Category, credit)
}

func formatSeconds(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}
