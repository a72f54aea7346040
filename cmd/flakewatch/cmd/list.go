package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/flakewatch/internal/git"
	"github.com/bianoble/flakewatch/internal/timeutil"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the inputs pinned in flake.lock",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path, err := resolveFlake()
		if err != nil {
			return err
		}

		flake, err := newNixService(cfg, git.NewCanceller()).LoadMetadata(cmd.Context(), path)
		if err != nil {
			return err
		}

		if len(flake.Inputs) == 0 {
			info("no inputs in flake.lock")
			return nil
		}

		nameW := 0
		for _, in := range flake.Inputs {
			if n := len(in.Name()); n > nameW {
				nameW = n
			}
		}
		for _, in := range flake.Inputs {
			age := ""
			if ts := in.LastModified(); ts > 0 {
				age = timeutil.RelativeUnix(ts)
			}
			info("%-*s  %-9s %-8s %s", nameW, in.Name(), in.TypeDisplay(), in.ShortRev(), age)
			if in.Git != nil {
				detail("url:   %s", in.Git.URL)
				detail("forge: %s", in.Git.Forge)
			}
		}
		info("")
		info("%d input(s)", len(flake.Inputs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
