package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every dataset of a specification collection",
	Long: `Run the integrity checks on every dataset of the collection and report
one line per dataset:

  ok        the dictionary is consistent and its data file(s) exist
  degraded  consistent, but a data path is relative or missing
  invalid   the dictionary is internally inconsistent

The command exits non-zero when any dataset is invalid.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if cfg.Specfile == "" {
		return fmt.Errorf("check: --specfile is required")
	}
	results, err := store.CheckAll(cfg.Specfile, cfg.SkipStat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	invalid := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			invalid++
			fmt.Fprintf(out, "%-9s %s: %v\n", "invalid", r.Name, r.Err)
		case hasEmptyPath(r.Validator.Filepaths()):
			fmt.Fprintf(out, "%-9s %s\n", "degraded", r.Name)
		default:
			fmt.Fprintf(out, "%-9s %s\n", "ok", r.Name)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d dataset(s) invalid", invalid, len(results))
	}
	return nil
}

func hasEmptyPath(paths []string) bool {
	for _, p := range paths {
		if p == "" {
			return true
		}
	}
	return false
}
