package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakewatch/internal/git"
	"github.com/bianoble/flakewatch/internal/model"
)

var lockCmd = &cobra.Command{
	Use:   "lock <input> <rev>",
	Short: "Pin an input to a specific upstream commit",
	Long: `Rewrites the flake.lock entry for an input so it points at the given
commit, using 'nix flake update' with an --override-input pointing at the
forge-specific pinned URL (e.g. github:owner/repo/<rev>).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, rev := args[0], args[1]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path, err := resolveFlake()
		if err != nil {
			return err
		}

		canceller := git.NewCanceller()
		svc := newNixService(cfg, canceller)
		flake, err := svc.LoadMetadata(cmd.Context(), path)
		if err != nil {
			return err
		}

		input := flake.Input(name)
		if input == nil {
			return fmt.Errorf("no input named %q in flake.lock", name)
		}
		if input.Git == nil {
			return fmt.Errorf("input %q is not backed by a git repository", name)
		}

		g := input.Git
		url := g.Forge.LockURL(g.Owner, g.Repo, rev, g.Host)
		if url == "" {
			return fmt.Errorf("cannot build a pinned URL for input %q (forge %s)", name, g.Forge)
		}

		detail("override url: %s", url)
		if err := svc.LockInput(cmd.Context(), path, name, url); err != nil {
			return fmt.Errorf("locking %s: %w", name, err)
		}
		info("Locked %s to %s.", name, model.Commit{SHA: rev}.ShortSHA())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lockCmd)
}
