// Package defs loads the named YAML definition records that describe tile,
// animal, jeep, and goal kinds, and provides the id → factory registries
// built from them. Records are fetched once and cached by name; every agent
// of a kind shares the attributes decoded from its record.
package defs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// defaultKey names another record in the same directory whose fields are
// merged in for any keys absent from the specific record. Resolution is a
// single hop; a default's own default is not chased.
const defaultKey = "default"

// Record is a raw definition record after default resolution.
type Record map[string]any

// Store loads and caches definition records under a root directory. Names
// are slash-separated relative paths without the .yaml extension, e.g.
// "animals/zebra".
type Store struct {
	root  string
	cache map[string]Record
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		root:  dir,
		cache: make(map[string]Record),
	}
}

// Get returns the record with the given name, loading and caching it on
// first use. The default marker is resolved and removed before caching, so
// later fetches return the merged value.
func (s *Store) Get(name string) (Record, error) {
	if rec, ok := s.cache[name]; ok {
		return rec, nil
	}

	rec, err := s.read(name)
	if err != nil {
		return nil, err
	}

	if d, ok := rec[defaultKey].(string); ok {
		base, err := s.read(filepath.ToSlash(filepath.Join(filepath.Dir(name), d)))
		if err != nil {
			return nil, fmt.Errorf("resolve default %q for %q: %w", d, name, err)
		}
		for k, v := range base {
			if k == defaultKey {
				continue
			}
			if _, present := rec[k]; !present {
				rec[k] = v
			}
		}
		delete(rec, defaultKey)
	}

	s.cache[name] = rec
	return rec, nil
}

// Decode loads the named record into out, which must be a pointer to a
// yaml-tagged struct.
func (s *Store) Decode(name string, out any) error {
	rec, err := s.Get(name)
	if err != nil {
		return err
	}
	raw, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("re-marshal %q: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %q: %w", name, err)
	}
	return nil
}

func (s *Store) read(name string) (Record, error) {
	path := filepath.Join(s.root, filepath.FromSlash(name)+".yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load definition %q: %w", name, err)
	}
	var rec Record
	if err := yaml.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("parse definition %q: %w", name, err)
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}
