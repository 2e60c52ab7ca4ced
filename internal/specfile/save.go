// internal/specfile/save.go
//
// Explicit write-back of one dataset entry.
//
// Context
// -------
// Validation never touches the collection file.  A caller that wants a
// corrected dictionary persisted calls Save, which rewrites the named entry
// and leaves every other entry as decoded.  The write goes to a temp file in
// the same directory and is renamed into place, so readers never observe a
// half-written collection.

package specfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yanizio/datadict/internal/dictionary"
)

// Save replaces (or adds) the entry name in the collection at path.  A
// missing file is created.  The cached collection for path is invalidated.
func (s *Store) Save(path, name string, spec dictionary.Spec) error {
	if name == "" {
		return errors.New("save specfile: empty dataset name")
	}

	doc := map[string]any{}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parse specfile %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{} // empty file
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("read specfile %s: %w", path, err)
	}

	doc[name] = spec
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode specfile %s: %w", path, err)
	}
	if err := writeAtomic(path, out); err != nil {
		return err
	}

	s.Invalidate(path)
	s.log.Infow("specfile entry saved", "file", path, "dataset", name)
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".specfile-*")
	if err != nil {
		return fmt.Errorf("write specfile %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write specfile %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write specfile %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write specfile %s: %w", path, err)
	}
	return nil
}
