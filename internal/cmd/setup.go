package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"launchpad/internal/config"
	"launchpad/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for launchpad",
	Long:  `An interactive wizard that writes an initial configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		console := tui.NewConsoleRegion(os.Stdout, os.Stdin)
		ctx := context.Background()

		fmt.Println("Welcome to the launchpad setup wizard!")
		newConfig := config.New()

		title, err := console.Prompt(ctx, "Menu title? [Launchpad]")
		if err != nil {
			return err
		}
		if title != "" {
			newConfig.Title = title
		}

		root, err := console.Prompt(ctx, "Action tree root folder? [actions]")
		if err != nil {
			return err
		}
		if root != "" {
			newConfig.Actions.Root = root
		}
		if _, statErr := os.Stat(newConfig.Actions.Root); statErr != nil {
			create, err := console.Confirm(ctx, fmt.Sprintf("%s does not exist, create it?", newConfig.Actions.Root))
			if err != nil {
				return err
			}
			if create {
				if err := os.MkdirAll(newConfig.Actions.Root, 0755); err != nil {
					return err
				}
			}
		}

		theme, err := console.Prompt(ctx, fmt.Sprintf("Theme? (%s) [default]", strings.Join(config.ListThemes(), ", ")))
		if err != nil {
			return err
		}
		if theme != "" {
			newConfig.Theme.Name = theme
			newConfig.ApplyTheme(theme)
		}

		debug, err := console.Confirm(ctx, "Enable debug logging?")
		if err != nil {
			return err
		}
		newConfig.Settings.Debug = debug
		if debug {
			logPath, err := console.Prompt(ctx, "Log file? [launchpad.log]")
			if err != nil {
				return err
			}
			if logPath == "" {
				logPath = "launchpad.log"
			}
			newConfig.Settings.LogFile = logPath
		}

		support, err := console.Prompt(ctx, "Support contact shown on startup failures? []")
		if err != nil {
			return err
		}
		newConfig.Settings.Support = support

		target := cfgFile
		if target == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			target = filepath.Join(home, ".config", "launchpad", "config.yaml")
		}
		if err := config.SaveConfig(newConfig, target); err != nil {
			return err
		}
		fmt.Printf("Configuration saved to %s\n", target)
		fmt.Println("Run 'launchpad' to open the viewer.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
