package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"launchpad/internal/tui"
)

var listActionsOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the discovered action tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner, _, err := buildScanner(cfg)
		if err != nil {
			return err
		}
		descriptors, err := scanner.Scan()
		if err != nil {
			return err
		}

		for _, d := range tui.Assemble(descriptors) {
			if d.IsFolder() && listActionsOnly {
				continue
			}
			marker := " "
			if !d.IsActive() {
				marker = "-"
			}
			kind := "action"
			if d.IsFolder() {
				kind = "folder"
			}
			fmt.Printf("%s %-6s %-40s %s\n", marker, kind, d.Key(), d.Summary())
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listActionsOnly, "actions", "a", false, "only show invokable actions")
	rootCmd.AddCommand(listCmd)
}
