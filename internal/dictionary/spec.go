// internal/dictionary/spec.go
//
// Typed data-dictionary model.
//
// Context
// -------
// A Spec describes one tabular dataset.  A Collection maps dataset names to
// Specs and is what a collection file on disk decodes into.  The struct tags
// serve three readers at once:
//
//   • `koanf:"…"`    – the collection loader (internal/specfile),
//   • `yaml:"…"`     – Store.Save when a collection is written back,
//   • `validate:"…"` – the integrity pass in integrity.go.
//
// Notes
// -----
//   • Specs handed to the validator are deep-copied; callers may keep
//     mutating their own value without affecting a built Validator.
//   • Files and Path are mutually exclusive.  Files describes a dataset
//     that spans several physical files sharing one column layout.

package dictionary

import "sort"

// Spec is the data dictionary of one dataset.
type Spec struct {
	Path       string   `koanf:"path"        yaml:"path,omitempty"        json:"path,omitempty"`
	Delimiter  string   `koanf:"delimiter"   yaml:"delimiter,omitempty"   json:"delimiter,omitempty"   validate:"max=1"`
	NRows      int      `koanf:"nrows"       yaml:"nrows,omitempty"       json:"nrows,omitempty"       validate:"gte=0"`
	NCols      int      `koanf:"ncols"       yaml:"ncols,omitempty"       json:"ncols,omitempty"       validate:"gte=0"`
	Columns    []Column `koanf:"columns"     yaml:"columns"               json:"columns"               validate:"unique=Name,dive"`
	UseCols    []string `koanf:"usecols"     yaml:"usecols,omitempty"     json:"usecols,omitempty"     validate:"dive,required"`
	ParseDates []string `koanf:"parse_dates" yaml:"parse_dates,omitempty" json:"parse_dates,omitempty" validate:"dive,required"`
	Files      []File   `koanf:"files"       yaml:"files,omitempty"       json:"files,omitempty"       validate:"dive"`
}

// File is one physical part of a multi-file dataset.
type File struct {
	Path  string `koanf:"path"  yaml:"path"            json:"path"            validate:"required"`
	NRows int    `koanf:"nrows" yaml:"nrows,omitempty" json:"nrows,omitempty" validate:"gte=0"`
}

// Clone returns a deep copy of s.
func (s Spec) Clone() Spec {
	out := s
	out.Columns = append([]Column(nil), s.Columns...)
	out.UseCols = append([]string(nil), s.UseCols...)
	out.ParseDates = append([]string(nil), s.ParseDates...)
	out.Files = append([]File(nil), s.Files...)
	return out
}

// Column returns the column called name.
func (s *Spec) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// parts lists the physical files of the dataset.  A single-file Spec yields
// one part built from Path and NRows.
func (s *Spec) parts() []File {
	if len(s.Files) > 0 {
		return s.Files
	}
	return []File{{Path: s.Path, NRows: s.NRows}}
}

// Collection maps dataset names to their Specs.
type Collection map[string]Spec

// Names returns the dataset names in lexical order.
func (c Collection) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Loader reads a Collection from a specification file.  Implementations
// own the file format; the validator only inspects the selected entry.
type Loader interface {
	Load(path string) (Collection, error)
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc func(path string) (Collection, error)

func (f LoaderFunc) Load(path string) (Collection, error) { return f(path) }
