package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakewatch/internal/git"
	"github.com/bianoble/flakewatch/internal/timeutil"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog <input>",
	Short: "Show upstream commits for an input",
	Long: `Prints the upstream commit log for one input: the commits ahead of the
pinned revision first, then recent history below the pin. The pinned
commit is marked.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path, err := resolveFlake()
		if err != nil {
			return err
		}

		canceller := git.NewCanceller()
		flake, err := newNixService(cfg, canceller).LoadMetadata(cmd.Context(), path)
		if err != nil {
			return err
		}

		input := flake.Input(args[0])
		if input == nil {
			return fmt.Errorf("no input named %q in flake.lock", args[0])
		}
		if input.Git == nil {
			return fmt.Errorf("input %q is not backed by a git repository", args[0])
		}

		data, err := newGitService(cfg, canceller).Changelog(cmd.Context(), input.Git)
		if err != nil {
			return fmt.Errorf("loading changelog for %s: %w", args[0], err)
		}

		if ahead := data.CommitsAhead(); ahead > 0 {
			info("%s is %d commit(s) behind upstream", args[0], ahead)
		} else {
			info("%s is up to date", args[0])
		}
		info("")
		for _, c := range data.Commits {
			marker := " "
			if c.IsLocked {
				marker = "*"
			}
			info("%s %s  %s", marker, c.ShortSHA(), c.Message)
			detail("%s, %s", c.Author, timeutil.RelativeShort(c.Date))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)
}
