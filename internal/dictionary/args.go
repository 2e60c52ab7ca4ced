package dictionary

// Keys of the parser-argument mapping.  The set is fixed: every mapping
// produced by a Validator carries all six, degraded or not.
const (
	KeyFilepath   = "filepath_or_buffer"
	KeySep        = "sep"
	KeyNRows      = "nrows"
	KeyDtype      = "dtype"
	KeyUsecols    = "usecols"
	KeyParseDates = "parse_dates"
)

// ParserArgs is the normalized argument set handed to a tabular reader.
type ParserArgs struct {
	FilepathOrBuffer string                `json:"filepath_or_buffer" yaml:"filepath_or_buffer"`
	Sep              string                `json:"sep"                yaml:"sep"`
	NRows            int                   `json:"nrows"              yaml:"nrows"`
	Dtype            map[string]ColumnType `json:"dtype"              yaml:"dtype"`
	Usecols          []string              `json:"usecols"            yaml:"usecols"`
	ParseDates       []string              `json:"parse_dates"        yaml:"parse_dates"`
}

// emptyArgs is the neutral argument set used by degraded validators.
// Collections are non-nil so JSON output shows {} and [] rather than null.
func emptyArgs() ParserArgs {
	return ParserArgs{
		Dtype:      map[string]ColumnType{},
		Usecols:    []string{},
		ParseDates: []string{},
	}
}

// Clone returns a deep copy of a.
func (a ParserArgs) Clone() ParserArgs {
	out := a
	out.Dtype = make(map[string]ColumnType, len(a.Dtype))
	for k, t := range a.Dtype {
		out.Dtype[k] = t
	}
	out.Usecols = append([]string{}, a.Usecols...)
	out.ParseDates = append([]string{}, a.ParseDates...)
	return out
}

// IsEmpty reports whether every field holds its neutral value.
func (a ParserArgs) IsEmpty() bool {
	return a.FilepathOrBuffer == "" && a.Sep == "" && a.NRows == 0 &&
		len(a.Dtype) == 0 && len(a.Usecols) == 0 && len(a.ParseDates) == 0
}

// Map returns the arguments keyed by their parser keyword names.
func (a ParserArgs) Map() map[string]any {
	c := a.Clone()
	return map[string]any{
		KeyFilepath:   c.FilepathOrBuffer,
		KeySep:        c.Sep,
		KeyNRows:      c.NRows,
		KeyDtype:      c.Dtype,
		KeyUsecols:    c.Usecols,
		KeyParseDates: c.ParseDates,
	}
}
