package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "launchpad/internal/errors"
	"launchpad/internal/paths"
	"launchpad/internal/tui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration, paths, and action tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok := true

		if err := cfg.Validate(); err != nil {
			fmt.Printf("config:   FAIL  %v\n", err)
			ok = false
		} else {
			fmt.Println("config:   ok")
		}

		resolver := paths.Resolve(cfg)
		if err := resolver.Check(); err != nil {
			fmt.Printf("paths:    FAIL\n%v\n", err)
			ok = false
		} else {
			fmt.Printf("paths:    ok (%d resolved)\n", len(resolver.All()))
		}

		if info, err := os.Stat(cfg.Actions.Root); err != nil {
			fmt.Printf("root:     FAIL  %v\n", err)
			ok = false
		} else if !info.IsDir() {
			fmt.Printf("root:     FAIL  %s is not a directory\n", cfg.Actions.Root)
			ok = false
		} else {
			fmt.Printf("root:     ok (%s)\n", cfg.Actions.Root)
		}

		if ok {
			scanner, _, err := buildScanner(cfg)
			if err != nil {
				return err
			}
			descriptors, err := scanner.Scan()
			if err != nil {
				fmt.Printf("scan:     FAIL  %v\n", err)
				ok = false
			} else {
				assembled := tui.Assemble(descriptors)
				active := 0
				for _, d := range assembled {
					if !d.IsFolder() && d.IsActive() {
						active++
					}
				}
				fmt.Printf("scan:     ok (%d entries, %d active actions)\n", len(assembled), active)
			}
		}

		if !ok {
			return apperrors.New("problems found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
