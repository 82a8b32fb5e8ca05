package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"shipment-savings-service/internal/domain"
	"strings"
	"sync"

	"github.com/google/renameio/v2/maybe"
)

// FileCoordinateStore keeps the coordinate cache in a flat JSON document:
//
//	{"CAMPINAS, SP": [-22.9056, -47.0608], "NOWHERE, XX": null}
//
// The document is loaded in full once and rewritten in full on every Save.
// Rewrites go through a temp file and rename so a crash never leaves a torn document.
type FileCoordinateStore struct {
	mu     sync.Mutex
	path   string
	doc    map[string]*[2]float64
	loaded bool
}

func NewFileCoordinateStore(path string) *FileCoordinateStore {
	return &FileCoordinateStore{path: path}
}

// Load every entry from the document. A missing file is an empty cache.
func (s *FileCoordinateStore) LoadAll(ctx context.Context) (map[string]domain.CacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	out := make(map[string]domain.CacheEntry, len(s.doc))
	for k, v := range s.doc {
		out[k] = toEntry(v)
	}
	return out, nil
}

// Store one entry and rewrite the document.
func (s *FileCoordinateStore) Save(ctx context.Context, key string, entry domain.CacheEntry) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("save coordinate cache: empty key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	prev, had := s.doc[key]
	s.doc[key] = fromEntry(entry)

	if err := s.flush(); err != nil {
		// Keep memory in step with what is on disk.
		if had {
			s.doc[key] = prev
		} else {
			delete(s.doc, key)
		}
		return err
	}

	return nil
}

func (s *FileCoordinateStore) load() error {
	if s.loaded {
		return nil
	}

	b, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.doc = map[string]*[2]float64{}
		s.loaded = true
		return nil
	case err != nil:
		return fmt.Errorf("load coordinate cache: read %q: %w", s.path, err)
	}

	doc := map[string]*[2]float64{}
	if len(strings.TrimSpace(string(b))) > 0 {
		if err := json.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("load coordinate cache: parse %q: %w", s.path, err)
		}
	}

	s.doc = doc
	s.loaded = true
	return nil
}

func (s *FileCoordinateStore) flush() error {
	b, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("save coordinate cache: encode: %w", err)
	}

	if err := maybe.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("save coordinate cache: write %q: %w", s.path, err)
	}
	return nil
}

func toEntry(v *[2]float64) domain.CacheEntry {
	if v == nil {
		return domain.UnresolvableEntry()
	}
	return domain.ResolvedEntry(domain.Coordinates{Lat: v[0], Lon: v[1]})
}

func fromEntry(e domain.CacheEntry) *[2]float64 {
	if !e.Resolved {
		return nil
	}
	ll := e.Coordinates.LatLon()
	return &ll
}
