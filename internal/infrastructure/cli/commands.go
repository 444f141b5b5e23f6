package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sketchforge/internal/app"
	"sketchforge/internal/domain"
	"sketchforge/internal/infrastructure/ai"
)

func newRunCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the generation loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			logStartupBanner(container)

			report := container.DoctorService.Run(cmd.Context())
			renderDoctorReport(cmd.ErrOrStderr(), report)
			if report.Fatal() {
				return fmt.Errorf("required dependencies missing; run `sketchforge doctor` for details")
			}

			return container.GeneratorService.Run(cmd.Context())
		},
	}
}

func logStartupBanner(container *app.Container) {
	cfg := container.Config
	backend := "remote"
	if cfg.Generator.UseLocalModel {
		backend = "local"
	}
	container.Logger.Info("sketchforge starting", map[string]interface{}{
		"run_id":           container.RunID,
		"interval_seconds": cfg.Generator.IntervalSeconds,
		"output_dir":       cfg.Generator.OutputDir,
		"backend":          backend,
		"model":            cfg.ActiveModel().ModelID,
	})
}

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := container.DoctorService.Run(cmd.Context())
			renderDoctorReport(cmd.OutOrStdout(), report)
			if report.Fatal() {
				return fmt.Errorf("diagnostics reported errors")
			}
			return nil
		},
	}
}

func renderDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}

func newValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <sketch-file>",
		Short: "Run the safety checks against a local sketch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			code := ai.ExtractCode(string(data))
			verdict := container.SafetyService.Validate(code)
			if !verdict.Safe {
				return fmt.Errorf("unsafe: %s", verdict.Reason)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", verdict.Reason)
			return nil
		},
	}
}

func newHistoryCommand(container *app.Container) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generation cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.HistoryStore.Recent(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cycles recorded yet.")
				return nil
			}
			for _, rec := range records {
				status := "saved"
				if rec.Deployed {
					status = "deployed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%04d  %s  %-9s %3d lines  %s\n",
					rec.SketchNumber,
					rec.Timestamp.Format("2006-01-02 15:04:05"),
					status,
					rec.LineCount,
					rec.Category)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of cycles to show")
	return cmd
}

func newConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect sketchforge configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout(), container)
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout(), container)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
			return nil
		},
	})

	return configCmd
}

func runConfigShow(out io.Writer, container *app.Container) error {
	raw, err := yaml.Marshal(container.Config)
	if err != nil {
		return err
	}
	_, err = out.Write(raw)
	return err
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show sketchforge version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "sketchforge %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			return nil
		},
	}
}

// version is stamped by the build; "dev" otherwise.
var version = "dev"
