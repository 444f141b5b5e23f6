package cli

import (
	"context"

	"github.com/spf13/cobra"

	"sketchforge/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. Running the binary with no
// subcommand starts the generation loop.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	runCmd := newRunCommand(container)

	root := &cobra.Command{
		Use:   "sketchforge",
		Short: "Autonomous ML-powered Arduino sketch generator",
		Long:  "sketchforge periodically asks a code-generation model for an Arduino sketch, screens it against safety rules, persists it, and deploys it to the attached microcontroller.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmd.RunE(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(runCmd)
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newValidateCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}
