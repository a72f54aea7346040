package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakewatch/internal/git"
)

var updateCmd = &cobra.Command{
	Use:   "update [input...]",
	Short: "Update flake inputs to their latest upstream revision",
	Long: `Runs 'nix flake update' for the named inputs, or for every input when
none are given, then reloads the lock data and shows the new pins.`,
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
		svc := newNixService(cfg, canceller)

		flake, err := svc.LoadMetadata(cmd.Context(), path)
		if err != nil {
			return err
		}
		before := make(map[string]string)
		for _, in := range flake.Inputs {
			before[in.Name()] = in.ShortRev()
		}

		if len(args) == 0 {
			err = svc.UpdateAll(cmd.Context(), path)
		} else {
			for _, name := range args {
				if flake.Input(name) == nil {
					return fmt.Errorf("no input named %q in flake.lock", name)
				}
			}
			err = svc.UpdateInputs(cmd.Context(), path, args)
		}
		if err != nil {
			return fmt.Errorf("updating inputs: %w", err)
		}

		after, err := svc.Refresh(cmd.Context(), path)
		if err != nil {
			return err
		}

		changed := 0
		for _, in := range after.Inputs {
			old := before[in.Name()]
			if old != "" && old != in.ShortRev() {
				info("  updated   %-24s %s -> %s", in.Name(), old, in.ShortRev())
				changed++
			}
		}
		if changed == 0 {
			info("All inputs already at their latest revisions.")
		} else {
			info("%d input(s) updated.", changed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
