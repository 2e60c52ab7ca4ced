// internal/dictionary/validator_test.go
//
// Unit-tests for Validator construction modes and argument derivation.
//
// Context
// -------
// Fixtures mirror two real dictionaries: the iris flower set (all float
// measurements plus a string label) and a person-activity log (TSV with a
// date column).  Data files are written to t.TempDir() so absolute paths
// exist for the stat check.
//
// Run: go test ./internal/dictionary -v

package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func writeData(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func irisSpec(path string) Spec {
	return Spec{
		Path:      path,
		Delimiter: ",",
		NRows:     150,
		Columns: []Column{
			{Name: "Sepal Length", Type: TypeFloat, Use: true},
			{Name: "Sepal Width", Type: TypeFloat, Use: true},
			{Name: "Petal Length", Type: TypeFloat, Use: true},
			{Name: "Petal Width", Type: TypeFloat, Use: true},
			{Name: "Species", Type: TypeString, Use: true},
		},
	}
}

func irisArgs(path string) ParserArgs {
	return ParserArgs{
		FilepathOrBuffer: path,
		Sep:              ",",
		NRows:            150,
		Dtype: map[string]ColumnType{
			"Petal Length": TypeFloat,
			"Petal Width":  TypeFloat,
			"Sepal Length": TypeFloat,
			"Sepal Width":  TypeFloat,
			"Species":      TypeString,
		},
		Usecols:    []string{"Petal Length", "Sepal Length", "Petal Width", "Sepal Width", "Species"},
		ParseDates: []string{},
	}
}

func activitySpec(path string) Spec {
	return Spec{
		Path:      path,
		Delimiter: "\t",
		NRows:     100,
		Columns: []Column{
			{Name: "sequence_name", Type: TypeString, Use: true},
			{Name: "tag", Type: TypeString, Use: true},
			{Name: "date", Type: TypeDate, Use: true},
			{Name: "x", Type: TypeFloat, Use: true},
			{Name: "y", Type: TypeFloat, Use: true},
			{Name: "z", Type: TypeFloat, Use: true},
			{Name: "activity", Type: TypeString, Use: true},
		},
	}
}

func activityArgs(path string) ParserArgs {
	return ParserArgs{
		FilepathOrBuffer: path,
		Sep:              "\t",
		NRows:            100,
		Dtype: map[string]ColumnType{
			"sequence_name": TypeString,
			"tag":           TypeString,
			"x":             TypeFloat,
			"y":             TypeFloat,
			"z":             TypeFloat,
			"activity":      TypeString,
		},
		Usecols:    []string{"sequence_name", "tag", "date", "x", "y", "z", "activity"},
		ParseDates: []string{"date"},
	}
}

// assertArgsEqual compares scalars exactly and sequences as sets.
func assertArgsEqual(t *testing.T, got, want ParserArgs) {
	t.Helper()
	if got.FilepathOrBuffer != want.FilepathOrBuffer {
		t.Errorf("filepath_or_buffer = %q, want %q", got.FilepathOrBuffer, want.FilepathOrBuffer)
	}
	if got.Sep != want.Sep {
		t.Errorf("sep = %q, want %q", got.Sep, want.Sep)
	}
	if got.NRows != want.NRows {
		t.Errorf("nrows = %d, want %d", got.NRows, want.NRows)
	}
	if !reflect.DeepEqual(got.Dtype, want.Dtype) {
		t.Errorf("dtype = %v, want %v", got.Dtype, want.Dtype)
	}
	if !sameItems(got.Usecols, want.Usecols) {
		t.Errorf("usecols = %v, want %v", got.Usecols, want.Usecols)
	}
	if !sameItems(got.ParseDates, want.ParseDates) {
		t.Errorf("parse_dates = %v, want %v", got.ParseDates, want.ParseDates)
	}
}

func sameItems(a, b []string) bool {
	x := append([]string{}, a...)
	y := append([]string{}, b...)
	sort.Strings(x)
	sort.Strings(y)
	return reflect.DeepEqual(x, y)
}

// assertNeutral checks every mapping value is "", 0, 1, false, nil, or an
// empty map or slice.
func assertNeutral(t *testing.T, m map[string]any) {
	t.Helper()
	if len(m) != 6 {
		t.Fatalf("mapping has %d keys, want 6: %v", len(m), m)
	}
	for k, val := range m {
		if val == nil {
			continue
		}
		rv := reflect.ValueOf(val)
		neutral := false
		switch rv.Kind() {
		case reflect.String:
			neutral = rv.Len() == 0
		case reflect.Int:
			neutral = rv.Int() == 0 || rv.Int() == 1
		case reflect.Bool:
			neutral = !rv.Bool()
		case reflect.Map, reflect.Slice:
			neutral = rv.Len() == 0
		}
		if !neutral {
			t.Errorf("%s = %#v, want a neutral value", k, val)
		}
	}
}

func mustNew(t *testing.T, opts Options) *Validator {
	t.Helper()
	val, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return val
}

func TestValidator_SpecificationIris(t *testing.T) {
	path := writeData(t, t.TempDir(), "iris.csv")
	spec := irisSpec(path)

	val := mustNew(t, Options{Specification: &spec})

	if val.Mode() != ModeSpecification {
		t.Fatalf("mode = %v, want specification", val.Mode())
	}
	assertArgsEqual(t, val.ParserArgs(), irisArgs(path))
	if val.Filepath() != path {
		t.Fatalf("Filepath = %q, want %q", val.Filepath(), path)
	}
}

func TestValidator_SpecificationActivity(t *testing.T) {
	path := writeData(t, t.TempDir(), "person_activity.tsv")
	spec := activitySpec(path)

	args := mustNew(t, Options{Specification: &spec}).ParserArgs()

	assertArgsEqual(t, args, activityArgs(path))
	if _, ok := args.Dtype["date"]; ok {
		t.Fatalf("date column must not appear in dtype: %v", args.Dtype)
	}
}

func TestValidator_SpecfileAndNameMatchDirectSpec(t *testing.T) {
	dir := t.TempDir()
	iris := irisSpec(writeData(t, dir, "iris.csv"))
	activity := activitySpec(writeData(t, dir, "person_activity.tsv"))
	specfile := filepath.Join(dir, "dictionary.yaml")

	var loadedFrom string
	loader := LoaderFunc(func(p string) (Collection, error) {
		loadedFrom = p
		return Collection{"iris": iris, "person_activity": activity}, nil
	})

	for name, spec := range map[string]Spec{"iris": iris, "person_activity": activity} {
		byName := mustNew(t, Options{Specfile: specfile, Name: name, Loader: loader})
		direct := mustNew(t, Options{Specification: &spec})

		if byName.Mode() != ModeSelectedByName {
			t.Fatalf("%s: mode = %v, want specfile", name, byName.Mode())
		}
		if loadedFrom != specfile {
			t.Fatalf("%s: loader got %q, want %q", name, loadedFrom, specfile)
		}
		assertArgsEqual(t, byName.ParserArgs(), direct.ParserArgs())
	}
}

func TestValidator_OnlySpecfileIsNeutral(t *testing.T) {
	called := false
	loader := LoaderFunc(func(string) (Collection, error) {
		called = true
		return nil, nil
	})

	val := mustNew(t, Options{Specfile: "/tmp/dictionary.yaml", Loader: loader})

	if val.Mode() != ModeIncomplete {
		t.Fatalf("mode = %v, want incomplete", val.Mode())
	}
	if called {
		t.Fatalf("loader must not be called without a dataset name")
	}
	assertNeutral(t, val.Map())
}

func TestValidator_OnlyNameIsNeutral(t *testing.T) {
	val := mustNew(t, Options{Name: "iris"})
	assertNeutral(t, val.Map())
	if _, ok := val.Spec(); ok {
		t.Fatalf("degraded validator must not expose a spec")
	}
}

func TestValidator_SpecificationsFieldIsUnsupported(t *testing.T) {
	spec := irisSpec(filepath.Join("testdata", "iris.csv"))

	val := mustNew(t, Options{Specifications: &spec})

	if val.Mode() != ModeUnsupported {
		t.Fatalf("mode = %v, want unsupported", val.Mode())
	}
	if val.Filepath() != "" {
		t.Fatalf("Filepath = %q, want empty", val.Filepath())
	}
	assertNeutral(t, val.Map())
}

func TestValidator_RelativePathDegradesFilepathOnly(t *testing.T) {
	spec := irisSpec(filepath.Join("testdata", "iris.csv"))

	args := mustNew(t, Options{Specification: &spec}).ParserArgs()

	if args.FilepathOrBuffer != "" {
		t.Fatalf("filepath_or_buffer = %q, want empty", args.FilepathOrBuffer)
	}
	if len(args.Usecols) != 5 || args.Sep != "," || args.NRows != 150 {
		t.Fatalf("column derivation should not depend on the path: %+v", args)
	}
}

func TestValidator_MissingAbsoluteFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")
	spec := irisSpec(missing)

	if got := mustNew(t, Options{Specification: &spec}).Filepath(); got != "" {
		t.Fatalf("Filepath = %q, want empty for missing file", got)
	}
	if got := mustNew(t, Options{Specification: &spec, SkipStat: true}).Filepath(); got != missing {
		t.Fatalf("SkipStat Filepath = %q, want %q", got, missing)
	}
}

func TestValidator_DirectoryIsNotAFile(t *testing.T) {
	spec := irisSpec(t.TempDir())
	if got := mustNew(t, Options{Specification: &spec}).Filepath(); got != "" {
		t.Fatalf("Filepath = %q, want empty for a directory", got)
	}
}

func TestValidator_UnknownDatasetIsNeutral(t *testing.T) {
	loader := LoaderFunc(func(string) (Collection, error) {
		return Collection{"iris": irisSpec("/x/iris.csv")}, nil
	})

	val := mustNew(t, Options{Specfile: "/x/dictionary.yaml", Name: "titanic", Loader: loader})

	if val.Mode() != ModeSelectedByName {
		t.Fatalf("mode = %v, want specfile", val.Mode())
	}
	assertNeutral(t, val.Map())
}

func TestValidator_LoaderErrorPropagatesUnchanged(t *testing.T) {
	boom := errors.New("boom")
	loader := LoaderFunc(func(string) (Collection, error) { return nil, boom })

	_, err := New(Options{Specfile: "/x/dictionary.yaml", Name: "iris", Loader: loader})
	if err != boom {
		t.Fatalf("err = %v, want the loader's error unchanged", err)
	}
}

func TestValidator_NoLoader(t *testing.T) {
	_, err := New(Options{Specfile: "/x/dictionary.yaml", Name: "iris"})
	if !errors.Is(err, ErrNoLoader) {
		t.Fatalf("err = %v, want ErrNoLoader", err)
	}
}

func TestValidator_IntegrityErrorCarriesDataset(t *testing.T) {
	bad := irisSpec("/x/iris.csv")
	bad.UseCols = []string{"Petal Colour"}
	loader := LoaderFunc(func(string) (Collection, error) {
		return Collection{"iris": bad}, nil
	})

	_, err := New(Options{Specfile: "/x/dictionary.yaml", Name: "iris", Loader: loader})

	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want *IntegrityError", err)
	}
	if ie.Dataset != "iris" || ie.Field != "usecols" {
		t.Fatalf("unexpected error detail: %+v", ie)
	}
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("errors.Is(err, ErrIntegrity) = false")
	}
}

func TestValidator_Idempotent(t *testing.T) {
	path := writeData(t, t.TempDir(), "iris.csv")
	spec := irisSpec(path)
	val := mustNew(t, Options{Specification: &spec})

	first := val.Map()
	first[KeySep] = ";" // mutating a returned mapping must not leak back
	first[KeyUsecols].([]string)[0] = "mutated"

	a, b := val.Map(), val.Map()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two calls differ:\n%v\n%v", a, b)
	}
	if a[KeySep] != "," {
		t.Fatalf("returned mapping aliases validator state")
	}
	for _, c := range a[KeyUsecols].([]string) {
		if c == "mutated" {
			t.Fatalf("returned slice aliases validator state")
		}
	}
}

func TestValidator_CallerSpecNotAliased(t *testing.T) {
	path := writeData(t, t.TempDir(), "iris.csv")
	spec := irisSpec(path)
	val := mustNew(t, Options{Specification: &spec})

	spec.Columns[0].Use = false
	spec.Delimiter = ";"

	args := val.ParserArgs()
	if args.Sep != "," || len(args.Usecols) != 5 {
		t.Fatalf("validator observed caller mutation: %+v", args)
	}
}

func TestValidator_UnusedColumnsExcluded(t *testing.T) {
	path := writeData(t, t.TempDir(), "iris.csv")
	spec := irisSpec(path)
	spec.Columns[0].Use = false // Sepal Length
	spec.Columns = append(spec.Columns, Column{Name: "observed", Type: TypeDate})

	args := mustNew(t, Options{Specification: &spec}).ParserArgs()

	for _, name := range []string{"Sepal Length", "observed"} {
		if _, ok := args.Dtype[name]; ok {
			t.Errorf("unused column %q in dtype", name)
		}
		for _, c := range append(args.Usecols, args.ParseDates...) {
			if c == name {
				t.Errorf("unused column %q selected", name)
			}
		}
	}
	if len(args.Usecols) != 4 {
		t.Fatalf("usecols = %v, want 4 columns", args.Usecols)
	}
}

func TestValidator_UseColsListAndExplicitDates(t *testing.T) {
	path := writeData(t, t.TempDir(), "log.csv")
	spec := Spec{
		Path:      path,
		Delimiter: ",",
		Columns: []Column{
			{Name: "id", Type: "integer"},
			{Name: "when", Type: "str"},
			{Name: "ok", Type: "boolean", Use: true},
		},
		UseCols:    []string{"id", "when"},
		ParseDates: []string{"when"},
	}

	val := mustNew(t, Options{Specification: &spec})
	args := val.ParserArgs()

	assertArgsEqual(t, args, ParserArgs{
		FilepathOrBuffer: path,
		Sep:              ",",
		Dtype:            map[string]ColumnType{"id": TypeInt, "ok": TypeBool},
		Usecols:          []string{"id", "when", "ok"},
		ParseDates:       []string{"when"},
	})

	got, _ := val.Spec()
	if got.Columns[1].Type != TypeString {
		t.Fatalf("aliases should be normalized, got %q", got.Columns[1].Type)
	}
}

func TestValidator_Multifile(t *testing.T) {
	dir := t.TempDir()
	a := writeData(t, dir, "part-0.csv")
	b := writeData(t, dir, "part-1.csv")
	spec := irisSpec("")
	spec.NRows = 0
	spec.Files = []File{
		{Path: a, NRows: 100},
		{Path: b, NRows: 50},
		{Path: "relative.csv", NRows: 1},
	}

	val := mustNew(t, Options{Specification: &spec})

	if !val.IsMultifile() {
		t.Fatalf("IsMultifile = false, want true")
	}
	sets := val.ParserArgSets()
	if len(sets) != 3 {
		t.Fatalf("got %d argument sets, want 3", len(sets))
	}
	wantPaths := []string{a, b, ""}
	wantRows := []int{100, 50, 1}
	for i, s := range sets {
		if s.FilepathOrBuffer != wantPaths[i] || s.NRows != wantRows[i] {
			t.Errorf("set %d = (%q, %d), want (%q, %d)",
				i, s.FilepathOrBuffer, s.NRows, wantPaths[i], wantRows[i])
		}
		if len(s.Usecols) != 5 || s.Sep != "," {
			t.Errorf("set %d lost shared column derivation: %+v", i, s)
		}
	}
	if val.Filepath() != a {
		t.Fatalf("Filepath = %q, want first file %q", val.Filepath(), a)
	}
}

func TestValidator_SingleFileIsNotMultifile(t *testing.T) {
	spec := irisSpec(writeData(t, t.TempDir(), "iris.csv"))
	val := mustNew(t, Options{Specification: &spec})
	if val.IsMultifile() || len(val.ParserArgSets()) != 1 {
		t.Fatalf("single-path spec reported as multi-file")
	}
}
