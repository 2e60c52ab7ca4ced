// internal/dictionary/integrity.go
//
// Specification-integrity checks.
//
// Context
// -------
// Two kinds of rules guard a Spec before anything is derived from it:
//
//   • Tag rules, enforced by go-playground/validator (`required`, `max=1`
//     on the delimiter, `unique=Name` on columns, the custom `coltype`).
//   • Referential rules that tags cannot express: usecols and parse_dates
//     entries must name declared columns, explicit date columns must be
//     selected and date-compatible, ncols must match, and Path and Files
//     are mutually exclusive.
//
// Any violation is returned as *IntegrityError, which matches ErrIntegrity
// under errors.Is.  A relative or missing dataset path is NOT an integrity
// problem; the validator degrades instead (see validator.go).

package dictionary

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrIntegrity is the sentinel matched by every *IntegrityError.
var ErrIntegrity = errors.New("specification integrity violation")

// IntegrityError reports one internally inconsistent specification field.
type IntegrityError struct {
	Dataset string // dataset name, empty for anonymous specs
	Field   string // e.g. "columns[2].type" or "usecols"
	Reason  string
}

func (e *IntegrityError) Error() string {
	var b strings.Builder
	b.WriteString("dictionary")
	if e.Dataset != "" {
		b.WriteString(" ")
		b.WriteString(e.Dataset)
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }

//
// validator instance (package-level singleton)
//

var v = newStructValidator()

func newStructValidator() *validator.Validate {
	sv := validator.New(validator.WithRequiredStructEnabled())
	// Report yaml-style names so errors match what users wrote.
	sv.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = sv.RegisterValidation("coltype", func(fl validator.FieldLevel) bool {
		return ColumnType(fl.Field().String()).Valid()
	})
	return sv
}

// normalize rewrites column kinds to their canonical spelling.  Unknown
// kinds are left untouched so the `coltype` rule reports them.
func normalize(s *Spec) {
	for i := range s.Columns {
		if t, err := ParseColumnType(string(s.Columns[i].Type)); err == nil {
			s.Columns[i].Type = t
		}
	}
}

// Check normalizes s in place and reports the first integrity violation.
func Check(s *Spec) error {
	normalize(s)

	if err := v.Struct(s); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			return fromFieldError(ves[0])
		}
		return &IntegrityError{Reason: err.Error()}
	}

	if s.Path != "" && len(s.Files) > 0 {
		return &IntegrityError{Field: "files", Reason: "path and files are mutually exclusive"}
	}
	if s.NCols > 0 && s.NCols != len(s.Columns) {
		return &IntegrityError{
			Field:  "ncols",
			Reason: fmt.Sprintf("declares %d columns, found %d", s.NCols, len(s.Columns)),
		}
	}

	for _, name := range s.UseCols {
		if _, ok := s.Column(name); !ok {
			return &IntegrityError{Field: "usecols", Reason: fmt.Sprintf("unknown column %q", name)}
		}
	}

	selected := selection(s)
	for _, name := range s.ParseDates {
		c, ok := s.Column(name)
		switch {
		case !ok:
			return &IntegrityError{Field: "parse_dates", Reason: fmt.Sprintf("unknown column %q", name)}
		case !selected[name]:
			return &IntegrityError{Field: "parse_dates", Reason: fmt.Sprintf("column %q is not used", name)}
		case !c.Type.dateCompatible():
			return &IntegrityError{
				Field:  "parse_dates",
				Reason: fmt.Sprintf("column %q of type %s cannot be parsed as a date", name, c.Type),
			}
		}
	}
	return nil
}

// selection returns the set of used column names: every column flagged
// `use` plus every name listed in usecols.
func selection(s *Spec) map[string]bool {
	out := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if c.Use {
			out[c.Name] = true
		}
	}
	for _, name := range s.UseCols {
		out[name] = true
	}
	return out
}

// fromFieldError turns a validator failure into an IntegrityError with a
// user-facing field path, e.g. "columns[1].type".
func fromFieldError(fe validator.FieldError) *IntegrityError {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:] // drop the root struct name
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "coltype":
		reason = fmt.Sprintf("unknown column type %q", fe.Value())
	case "unique":
		reason = "column names must be unique"
	case "max":
		reason = fmt.Sprintf("must be at most %s character", fe.Param())
	case "gte":
		reason = fmt.Sprintf("must be >= %s", fe.Param())
	default:
		reason = fmt.Sprintf("failed %q rule", fe.Tag())
	}
	return &IntegrityError{Field: field, Reason: reason}
}
