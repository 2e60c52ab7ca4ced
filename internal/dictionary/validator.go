// internal/dictionary/validator.go
//
// Data-dictionary validator.
//
// Context
// -------
// New resolves its Options into exactly one construction Mode, turns that
// mode into either a real Spec or nothing, checks the Spec, and derives the
// parser arguments once.  After New returns the Validator is immutable, so
// every accessor is a pure read and concurrent use is safe.
//
//   Mode                 Input                        Outcome
//   ───────────────────  ───────────────────────────  ─────────────────────
//   ModeSpecification    Specification                checked + derived
//   ModeSelectedByName   Specfile + Name (+ Loader)   loaded, selected, …
//   ModeIncomplete       Specfile or Name alone       neutral output
//   ModeUnsupported      Specifications               neutral output
//
// Error policy
// ------------
//   • Incomplete configuration (the two neutral modes above, an unknown
//     dataset name, a relative or missing data file) never fails.  It is
//     logged at WARN and counted in datadict_degraded_total.
//   • An internally inconsistent Spec fails with *IntegrityError.
//   • Loader errors are returned exactly as the Loader produced them.
//
// Notes
// -----
//   • The Loader is required in ModeSelectedByName.  The CLI and HTTP
//     server pass a *specfile.Store.
//   • Oxford commas, two spaces after periods.

package dictionary

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yanizio/datadict/internal/metrics"
)

// Mode identifies which construction input a Validator was built from.
type Mode int

const (
	ModeIncomplete Mode = iota
	ModeSpecification
	ModeSelectedByName
	ModeUnsupported
)

func (m Mode) String() string {
	switch m {
	case ModeSpecification:
		return "specification"
	case ModeSelectedByName:
		return "specfile"
	case ModeUnsupported:
		return "unsupported"
	default:
		return "incomplete"
	}
}

// Degradation reasons, used as log fields and metric labels.
const (
	reasonIncomplete  = "incomplete"
	reasonUnsupported = "unsupported_field"
	reasonUnknownName = "unknown_dataset"
	reasonNoPath      = "missing_path"
	reasonRelative    = "relative_path"
	reasonMissingFile = "missing_file"
)

// ErrNoLoader is returned when a specfile and name are given without a
// Loader to read the specfile with.
var ErrNoLoader = errors.New("dictionary: specfile given without a loader")

// Options configures New.  Exactly one identifying input is expected:
// Specification, or Specfile together with Name.
type Options struct {
	// Specification is a single dataset's dictionary supplied directly.
	Specification *Spec

	// Specifications is accepted for shape compatibility only.  A
	// validator built from it always resolves to an empty file path.
	Specifications *Spec

	// Specfile and Name select one entry of a collection file.
	Specfile string
	Name     string

	// Loader reads Specfile.  Required when Specfile and Name are set.
	Loader Loader

	// SkipStat accepts any absolute path without checking that the file
	// exists.  Useful when validating dictionaries for another host.
	SkipStat bool

	// Logger defaults to zap.S().
	Logger *zap.SugaredLogger
}

// Validator holds one checked Spec and the parser arguments derived from it.
type Validator struct {
	mode     Mode
	name     string
	specfile string
	spec     *Spec
	args     []ParserArgs
	log      *zap.SugaredLogger
}

func resolveMode(o Options) Mode {
	switch {
	case o.Specification != nil:
		return ModeSpecification
	case o.Specifications != nil:
		return ModeUnsupported
	case o.Specfile != "" && o.Name != "":
		return ModeSelectedByName
	default:
		return ModeIncomplete
	}
}

// New builds a Validator from opts.  See the file header for the error
// policy.
func New(opts Options) (*Validator, error) {
	log := opts.Logger
	if log == nil {
		log = zap.S()
	}

	val := &Validator{
		mode:     resolveMode(opts),
		name:     opts.Name,
		specfile: opts.Specfile,
		log:      log,
	}
	metrics.Validations.WithLabelValues(val.mode.String()).Inc()

	var spec *Spec
	switch val.mode {
	case ModeSpecification:
		s := opts.Specification.Clone()
		spec = &s

	case ModeSelectedByName:
		if opts.Loader == nil {
			return nil, ErrNoLoader
		}
		coll, err := opts.Loader.Load(opts.Specfile)
		if err != nil {
			return nil, err
		}
		s, ok := coll[opts.Name]
		if !ok {
			val.degrade(reasonUnknownName)
			break
		}
		s = s.Clone()
		spec = &s

	case ModeUnsupported:
		val.degrade(reasonUnsupported)

	default:
		val.degrade(reasonIncomplete)
	}

	if spec == nil {
		val.args = []ParserArgs{emptyArgs()}
		return val, nil
	}

	if err := Check(spec); err != nil {
		var ie *IntegrityError
		if errors.As(err, &ie) {
			ie.Dataset = val.name
		}
		metrics.IntegrityErrors.Inc()
		log.Errorw("dictionary integrity check failed",
			"dataset", val.name, "specfile", val.specfile, "err", err)
		return nil, err
	}

	val.spec = spec
	val.derive(opts.SkipStat)
	log.Debugw("dictionary validated",
		"dataset", val.name,
		"mode", val.mode.String(),
		"filepath", val.Filepath(),
		"columns", len(val.args[0].Usecols),
	)
	return val, nil
}

// derive computes one ParserArgs per physical file.  Column-dependent
// fields are shared; path and row cap come from each file.
func (val *Validator) derive(skipStat bool) {
	s := val.spec
	used := selection(s)
	explicitDates := make(map[string]bool, len(s.ParseDates))
	for _, name := range s.ParseDates {
		explicitDates[name] = true
	}

	base := emptyArgs()
	base.Sep = s.Delimiter
	for _, c := range s.Columns {
		if !used[c.Name] {
			continue
		}
		base.Usecols = append(base.Usecols, c.Name)
		if c.Type.IsDate() || explicitDates[c.Name] {
			base.ParseDates = append(base.ParseDates, c.Name)
			continue
		}
		base.Dtype[c.Name] = c.Type
	}

	parts := s.parts()
	val.args = make([]ParserArgs, 0, len(parts))
	for _, p := range parts {
		a := base.Clone()
		a.FilepathOrBuffer = val.resolvePath(p.Path, skipStat)
		a.NRows = p.NRows
		val.args = append(val.args, a)
	}
}

// resolvePath returns p when it is absolute and names an existing regular
// file, and "" otherwise.  It never turns a relative path into an absolute
// one.
func (val *Validator) resolvePath(p string, skipStat bool) string {
	switch {
	case p == "":
		val.degrade(reasonNoPath)
		return ""
	case !filepath.IsAbs(p):
		val.degrade(reasonRelative, "path", p)
		return ""
	case skipStat:
		return p
	}
	fi, err := os.Stat(p)
	if err != nil || !fi.Mode().IsRegular() {
		val.degrade(reasonMissingFile, "path", p)
		return ""
	}
	return p
}

func (val *Validator) degrade(reason string, kv ...any) {
	metrics.Degraded.WithLabelValues(reason).Inc()
	fields := append([]any{
		"dataset", val.name,
		"specfile", val.specfile,
		"mode", val.mode.String(),
		"reason", reason,
	}, kv...)
	val.log.Warnw("dictionary degraded to neutral output", fields...)
}

//
// accessors
//

// ParserArgs returns the derived arguments.  For a multi-file dataset it
// returns the set of the first file; see ParserArgSets.
func (val *Validator) ParserArgs() ParserArgs { return val.args[0].Clone() }

// Map is ParserArgs keyed by parser keyword names.
func (val *Validator) Map() map[string]any { return val.args[0].Map() }

// ParserArgSets returns one argument set per physical file.
func (val *Validator) ParserArgSets() []ParserArgs {
	out := make([]ParserArgs, len(val.args))
	for i, a := range val.args {
		out[i] = a.Clone()
	}
	return out
}

// IsMultifile reports whether the dataset spans more than one file.
func (val *Validator) IsMultifile() bool { return len(val.args) > 1 }

// Filepath is the validated absolute path of the (first) data file, or ""
// when none could be established.
func (val *Validator) Filepath() string { return val.args[0].FilepathOrBuffer }

// Filepaths lists the validated path of every file, "" for failed entries.
func (val *Validator) Filepaths() []string {
	out := make([]string, len(val.args))
	for i, a := range val.args {
		out[i] = a.FilepathOrBuffer
	}
	return out
}

func (val *Validator) Mode() Mode       { return val.mode }
func (val *Validator) Name() string     { return val.name }
func (val *Validator) Specfile() string { return val.specfile }

// Spec returns a copy of the checked, normalized Spec.  The boolean is
// false for degraded validators.
func (val *Validator) Spec() (Spec, bool) {
	if val.spec == nil {
		return Spec{}, false
	}
	return val.spec.Clone(), true
}
