package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"launchpad/internal/config"
	"launchpad/internal/log"
)

var (
	cfgFile string
	cfg     *config.Config
	logFile *os.File
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "launchpad",
	Short: "A navigable menu of actions discovered from a folder tree",
	Long: `Launchpad scans a folder tree for actions, builds a hierarchical
menu from it, and opens an interactive viewer to browse and run them.

Actions come from three places: actions.yaml manifests in the tree,
actions registered in code, and the folders themselves, which become
navigable groups. Run without arguments to open the viewer.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadConfigFile(cfgFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			fmt.Printf("warning: %v\n", err)
			fmt.Println("using default settings")
			cfg = config.New()
		}

		log.SetDebug(cfg.Settings.Debug)
		if cfg.Settings.LogFile != "" {
			logFile, err = log.ToFile(cfg.Settings.LogFile)
			if err != nil {
				fmt.Printf("warning: cannot open log file: %v\n", err)
			}
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
			logFile = nil
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return browse()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/launchpad/config.yaml)")
}
