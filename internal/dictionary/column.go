// internal/dictionary/column.go
//
// Column descriptors and the fixed set of primitive column kinds.
//
// Context
// -------
// A data dictionary declares every column of a dataset with a name, a
// primitive kind, and a `use` flag.  Text sources (YAML collections, CLI
// flags) are lenient about the spelling of a kind, so ParseColumnType folds
// the common aliases onto one canonical value.  Everything downstream of the
// validator only ever sees canonical kinds.
//
// Notes
// -----
//   • Unknown kinds are a specification-integrity problem, not a load error,
//     so the collection loader never rejects them.  The validator does.
//   • Oxford commas, two spaces after periods.

package dictionary

import (
	"fmt"
	"strings"
)

// ColumnType is the primitive kind of a column.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeFloat  ColumnType = "float"
	TypeInt    ColumnType = "int"
	TypeBool   ColumnType = "bool"
	TypeDate   ColumnType = "date"
)

// typeAliases maps every accepted spelling to its canonical kind.
var typeAliases = map[string]ColumnType{
	"string":   TypeString,
	"str":      TypeString,
	"float":    TypeFloat,
	"float64":  TypeFloat,
	"double":   TypeFloat,
	"int":      TypeInt,
	"int64":    TypeInt,
	"integer":  TypeInt,
	"bool":     TypeBool,
	"boolean":  TypeBool,
	"date":     TypeDate,
	"datetime": TypeDate,
}

// ParseColumnType returns the canonical kind for s.  Matching ignores case
// and surrounding whitespace.
func ParseColumnType(s string) (ColumnType, error) {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown column type %q", s)
}

// Valid reports whether t is one of the canonical kinds.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeString, TypeFloat, TypeInt, TypeBool, TypeDate:
		return true
	}
	return false
}

// IsDate reports whether columns of this kind go to parse_dates instead of
// the dtype mapping.
func (t ColumnType) IsDate() bool { return t == TypeDate }

// dateCompatible reports whether a column of this kind may be listed in an
// explicit parse_dates entry.  Strings qualify because the parser reads the
// raw text before converting it.
func (t ColumnType) dateCompatible() bool {
	return t == TypeDate || t == TypeString
}

func (t ColumnType) String() string { return string(t) }

// Column describes one column of a dataset.
type Column struct {
	Name string     `koanf:"name" yaml:"name" json:"name" validate:"required"`
	Type ColumnType `koanf:"type" yaml:"type" json:"type" validate:"required,coltype"`
	Use  bool       `koanf:"use"  yaml:"use"  json:"use"`
}
