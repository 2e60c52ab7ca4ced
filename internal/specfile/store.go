package specfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/datadict/internal/cache"
	"github.com/yanizio/datadict/internal/dictionary"
	"github.com/yanizio/datadict/internal/metrics"
)

// DefaultCacheEntries bounds the number of collections a Store keeps.
const DefaultCacheEntries = 32

// ErrNotFound is returned by Get when the collection has no such dataset.
var ErrNotFound = errors.New("dataset not found")

// Options configures a Store.
type Options struct {
	CacheEntries int    // ≤0 means DefaultCacheEntries
	EnvPrefix    string // per-dataset env overrides; "" disables them
	Logger       *zap.SugaredLogger
}

// Store loads collections through Load and caches them by absolute path.
// A cached collection is reused while the file's size and modification
// time are unchanged.  Concurrent loads of one path share a single read.
//
// Store implements dictionary.Loader.
type Store struct {
	mu        sync.Mutex
	lru       *cache.LRU[string, entry]
	sfg       singleflight.Group
	envPrefix string
	log       *zap.SugaredLogger
}

type entry struct {
	coll    dictionary.Collection
	size    int64
	modTime time.Time
}

// NewStore returns an empty Store.
func NewStore(opts Options) *Store {
	n := opts.CacheEntries
	if n <= 0 {
		n = DefaultCacheEntries
	}
	log := opts.Logger
	if log == nil {
		log = zap.S()
	}
	s := &Store{
		lru:       cache.New[string, entry](n),
		envPrefix: opts.EnvPrefix,
		log:       log,
	}
	s.lru.OnEvict(func(path string, _ entry) {
		metrics.CachedCollections.Dec()
		log.Debugw("specfile evicted from cache", "file", path)
	})
	return s
}

// Load returns the collection stored at path.  The result is a private
// copy; callers may modify it freely.
func (s *Store) Load(path string) (dictionary.Collection, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		metrics.SpecfileLoadErrors.Inc()
		return nil, fmt.Errorf("stat specfile %s: %w", path, err)
	}

	s.mu.Lock()
	ent, ok := s.lru.Get(abs)
	s.mu.Unlock()
	if ok && ent.size == fi.Size() && ent.modTime.Equal(fi.ModTime()) {
		metrics.SpecfileCacheHits.Inc()
		return cloneCollection(ent.coll), nil
	}

	v, err, _ := s.sfg.Do(abs, func() (any, error) {
		coll, err := Load(abs, s.envPrefix)
		if err != nil {
			metrics.SpecfileLoadErrors.Inc()
			return nil, err
		}
		metrics.SpecfileLoads.Inc()
		s.put(abs, entry{coll: coll, size: fi.Size(), modTime: fi.ModTime()})
		return coll, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneCollection(v.(dictionary.Collection)), nil
}

// Get returns one dataset's Spec.
func (s *Store) Get(path, name string) (dictionary.Spec, error) {
	coll, err := s.Load(path)
	if err != nil {
		return dictionary.Spec{}, err
	}
	spec, ok := coll[name]
	if !ok {
		return dictionary.Spec{}, fmt.Errorf("%s in %s: %w", name, path, ErrNotFound)
	}
	return spec, nil
}

// Validator builds a dictionary.Validator for one dataset of the
// collection at path, reading the collection through s.
func (s *Store) Validator(path, name string, skipStat bool) (*dictionary.Validator, error) {
	return dictionary.New(dictionary.Options{
		Specfile: path,
		Name:     name,
		Loader:   s,
		SkipStat: skipStat,
		Logger:   s.log,
	})
}

// Invalidate drops the cached collection for path, if any.
func (s *Store) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Remove(abs)
}

// Cached lists the absolute paths of cached collections, most recently
// used first.
func (s *Store) Cached() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Keys()
}

func (s *Store) put(abs string, e entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lru.Get(abs); !ok {
		metrics.CachedCollections.Inc()
	}
	s.lru.Add(abs, e)
}

func cloneCollection(c dictionary.Collection) dictionary.Collection {
	out := make(dictionary.Collection, len(c))
	for name, spec := range c {
		out[name] = spec.Clone()
	}
	return out
}
