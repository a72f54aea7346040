package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakewatch/internal/app"
	"github.com/bianoble/flakewatch/internal/git"
	"github.com/bianoble/flakewatch/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flake-path]",
	Short: "Interactive view of flake inputs and their updates",
	Long: `Opens the interactive terminal view: every input in the flake.lock with
its pinned revision, age, and update status, with keys to update inputs,
browse upstream changelogs, and lock an input to a specific commit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			flakePath = args[0]
		}
		return runWatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := resolveFlake()
	if err != nil {
		return err
	}

	canceller := git.NewCanceller()
	a := app.New(path, newNixService(cfg, canceller), newGitService(cfg, canceller), canceller)

	keys, err := ui.NewTerminalInput()
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	renderer := ui.NewTerminalRenderer()
	defer func() {
		_ = renderer.Close()
		_ = keys.Close()
	}()

	return a.Run(cmd.Context(), keys, renderer)
}
