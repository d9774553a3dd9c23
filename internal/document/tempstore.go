package document

import (
	"errors"
	"os"
	"sort"
)

// tempStore owns every temp file a document creates. Files leave the store
// only through release or discard; close removes whatever is left.
type tempStore struct {
	dir     string
	pattern string
	live    map[string]struct{}
}

func newTempStore(dir, prefix string) *tempStore {
	return &tempStore{
		dir:     dir,
		pattern: prefix + "-*.tmp",
		live:    make(map[string]struct{}),
	}
}

func (s *tempStore) create() (*os.File, error) {
	f, err := os.CreateTemp(s.dir, s.pattern)
	if err != nil {
		return nil, err
	}
	s.live[f.Name()] = struct{}{}
	return f, nil
}

// release removes a superseded file. The name is forgotten even when removal
// fails so that close does not report it twice.
func (s *tempStore) release(path string) error {
	delete(s.live, path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// discard closes and removes a partially written file.
func (s *tempStore) discard(f *os.File) {
	f.Close()
	s.release(f.Name())
}

func (s *tempStore) paths() []string {
	out := make([]string, 0, len(s.live))
	for p := range s.live {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (s *tempStore) close() error {
	var errs []error
	for _, p := range s.paths() {
		if err := s.release(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
