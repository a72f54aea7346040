package cmd

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakewatch/internal/git"
	"github.com/bianoble/flakewatch/internal/model"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every input for upstream updates",
	Long: `Checks each git-backed input against its upstream branch and reports how
many commits behind it is. Exit 0 when everything is up to date; exit
non-zero when any input is behind or a check failed. Suitable for CI.`,
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

		var mu sync.Mutex
		results := make(map[string]model.UpdateStatus)
		err = newGitService(cfg, canceller).CheckUpdates(cmd.Context(), flake.Inputs,
			func(name string, status model.UpdateStatus) {
				if status.Kind == model.StatusChecking {
					return
				}
				mu.Lock()
				results[name] = status
				mu.Unlock()
			})
		if err != nil {
			return err
		}

		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)

		behind, failed := 0, 0
		for _, name := range names {
			st := results[name]
			switch st.Kind {
			case model.StatusUpToDate:
				info("  ok        %s", name)
			case model.StatusBehind:
				info("  behind    %-24s %d commit(s)", name, st.Behind)
				behind++
			case model.StatusError:
				info("  error     %s", name)
				detail("%s", st.Reason)
				failed++
			}
		}

		if behind == 0 && failed == 0 {
			info("All inputs are up to date.")
			return nil
		}
		return fmt.Errorf("check finished: %d input(s) behind, %d check(s) failed", behind, failed)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
