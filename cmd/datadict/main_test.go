package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCollection(t *testing.T) (specfile, data string) {
	t.Helper()
	dir := t.TempDir()
	data = filepath.Join(dir, "iris.csv")
	if err := os.WriteFile(data, []byte("header\n"), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	specfile = filepath.Join(dir, "dictionary.yaml")
	body := fmt.Sprintf(`iris:
  path: %s
  delimiter: ","
  nrows: 150
  columns:
    - {name: Petal Width, type: float, use: true}
    - {name: Species, type: str, use: true}
broken:
  usecols: [nope]
  columns:
    - {name: a, type: float}
`, data)
	if err := os.WriteFile(specfile, []byte(body), 0o644); err != nil {
		t.Fatalf("write specfile: %v", err)
	}
	return specfile, data
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestArgsCommand_JSON(t *testing.T) {
	specfile, data := writeCollection(t)

	out, err := run(t, "args", "--specfile", specfile, "--name", "iris", "--format", "json")
	if err != nil {
		t.Fatalf("args: %v\n%s", err, out)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got["filepath_or_buffer"] != data || got["sep"] != "," {
		t.Fatalf("unexpected output: %v", got)
	}
}

func TestArgsCommand_MissingNameIsNeutral(t *testing.T) {
	specfile, _ := writeCollection(t)

	out, err := run(t, "args", "--specfile", specfile, "--name", "", "--format", "text")
	if err != nil {
		t.Fatalf("args: %v", err)
	}
	if !strings.Contains(out, "filepath_or_buffer") || strings.Contains(out, "iris.csv") {
		t.Fatalf("expected neutral text output, got:\n%s", out)
	}
}

func TestCheckCommand_ReportsInvalid(t *testing.T) {
	specfile, _ := writeCollection(t)

	out, err := run(t, "check", "--specfile", specfile)
	if err == nil {
		t.Fatalf("check succeeded with an invalid dataset:\n%s", out)
	}
	if !strings.Contains(out, "invalid   broken") || !strings.Contains(out, "ok        iris") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}
