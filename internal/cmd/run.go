package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	apperrors "launchpad/internal/errors"
	"launchpad/internal/tui"
	"launchpad/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run <action-path>",
	Short: "Run a single action without opening the viewer",
	Long: `Run invokes one action by its full path, for example
"launchpad run deploy/staging". Output goes to stdout and prompts are
answered on stdin. Exits nonzero when the action fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner, _, err := buildScanner(cfg)
		if err != nil {
			return err
		}
		descriptors, err := scanner.Scan()
		if err != nil {
			return err
		}

		key := types.NormalizePath(args[0]).String()
		var target *types.Descriptor
		for _, d := range tui.Assemble(descriptors) {
			if !d.IsFolder() && d.Key() == key {
				target = &d
				break
			}
		}
		if target == nil {
			return apperrors.NewInvocationError("no such action", key, apperrors.ActionNotFound, nil)
		}
		if !target.IsActive() {
			return apperrors.NewInvocationError("action is not active", key, apperrors.ActionInactive, nil)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		wd, wdErr := os.Getwd()
		region := tui.NewConsoleRegion(os.Stdout, os.Stdin)
		err = target.Callback(ctx, region)
		if wdErr == nil {
			_ = os.Chdir(wd)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
