package specfile

import (
	"github.com/yanizio/datadict/internal/dictionary"
)

// Result is the outcome of validating one dataset of a collection.
type Result struct {
	Name      string
	Validator *dictionary.Validator // nil when Err is set
	Err       error
}

// CheckAll validates every dataset of the collection at path, in name
// order.  Only a failure to read the collection is returned as an error;
// per-dataset integrity errors are reported in the results.
func (s *Store) CheckAll(path string, skipStat bool) ([]Result, error) {
	coll, err := s.Load(path)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(coll))
	for _, name := range coll.Names() {
		val, err := s.Validator(path, name, skipStat)
		results = append(results, Result{Name: name, Validator: val, Err: err})
	}
	return results, nil
}
