package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanizio/datadict/internal/dictionary"
)

var argsFlags struct {
	name   string
	format string
	all    bool
}

var argsCmd = &cobra.Command{
	Use:   "args",
	Short: "Print the parser arguments of one dataset",
	Long: `Validate one dataset of a specification collection and print the
derived parser arguments.

A missing --specfile or --name is not an error: the output is the neutral
argument set and a warning is logged.  An inconsistent dictionary (unknown
column in usecols, duplicate column names, …) exits non-zero.

Examples:
  datadict args -f dictionary.yaml --name iris
  datadict args -f dictionary.yaml --name person_activity --format text
  datadict args -f dictionary.yaml --name sharded --all`,
	RunE: runArgs,
}

func init() {
	rootCmd.AddCommand(argsCmd)

	argsCmd.Flags().StringVarP(&argsFlags.name, "name", "n", "", "dataset name")
	argsCmd.Flags().StringVar(&argsFlags.format, "format", "json", "output format: json, text")
	argsCmd.Flags().BoolVar(&argsFlags.all, "all", false, "print one argument set per file of a multi-file dataset")
}

func runArgs(cmd *cobra.Command, _ []string) error {
	val, err := dictionary.New(dictionary.Options{
		Specfile: cfg.Specfile,
		Name:     argsFlags.name,
		Loader:   store,
		SkipStat: cfg.SkipStat,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	sets := []dictionary.ParserArgs{val.ParserArgs()}
	if argsFlags.all {
		sets = val.ParserArgSets()
	}

	out := cmd.OutOrStdout()
	switch argsFlags.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if argsFlags.all {
			return enc.Encode(sets)
		}
		return enc.Encode(sets[0])
	case "text":
		for i, a := range sets {
			if i > 0 {
				fmt.Fprintln(out)
			}
			writeText(out, a)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or text)", argsFlags.format)
	}
}

// writeText prints one argument set as aligned key/value lines.
func writeText(w io.Writer, a dictionary.ParserArgs) {
	dtypes := make([]string, 0, len(a.Dtype))
	for name, t := range a.Dtype {
		dtypes = append(dtypes, name+"="+t.String())
	}
	sort.Strings(dtypes)

	fmt.Fprintf(w, "%-20s %s\n", dictionary.KeyFilepath, a.FilepathOrBuffer)
	fmt.Fprintf(w, "%-20s %q\n", dictionary.KeySep, a.Sep)
	fmt.Fprintf(w, "%-20s %d\n", dictionary.KeyNRows, a.NRows)
	fmt.Fprintf(w, "%-20s %s\n", dictionary.KeyDtype, strings.Join(dtypes, ", "))
	fmt.Fprintf(w, "%-20s %s\n", dictionary.KeyUsecols, strings.Join(a.Usecols, ", "))
	fmt.Fprintf(w, "%-20s %s\n", dictionary.KeyParseDates, strings.Join(a.ParseDates, ", "))
}
