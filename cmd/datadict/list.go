package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the dataset names of a specification collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Specfile == "" {
			return fmt.Errorf("list: --specfile is required")
		}
		coll, err := store.Load(cfg.Specfile)
		if err != nil {
			return err
		}
		for _, name := range coll.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
