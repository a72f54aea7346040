package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakewatch/internal/config"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	flakePath  string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "flakewatch [flake-path]",
	Short: "Keep Nix flake inputs up to date",
	Long: `flakewatch inspects a flake.lock, checks each input against its upstream
repository, and shows what you are missing. It talks to forge APIs
(GitHub, GitLab, SourceHut) when it can and falls back to a local
mirror clone when it cannot.

Run with no subcommand for the interactive view.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			flakePath = args[0]
		}
		return runWatch(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flakewatch %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&flakePath, "flake", ".", "path to the flake directory or flake.nix")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		errorf("%v", err)
		return err
	}
	return nil
}
