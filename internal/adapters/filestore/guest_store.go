package filestore

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/skycastapp/skycast/internal/core/domain"
)

const (
	preferencesFile = "preferences.json"
	favoritesFile   = "favorites.json"
)

// GuestStore persists the anonymous identity's preferences and favorites
// as two JSON documents. Reads of missing or corrupt files degrade to
// defaults; write failures are logged and swallowed. The guest path must
// stay usable with no working storage at all.
type GuestStore struct {
	mu  sync.Mutex
	dir string
}

func NewGuestStore(dir string) *GuestStore {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("guest store: cannot create data dir %s: %v", dir, err)
	}
	return &GuestStore{dir: dir}
}

func (s *GuestStore) GetPreferences(ctx context.Context) domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prefs domain.Preferences
	if !s.load(preferencesFile, &prefs) {
		return domain.DefaultPreferences()
	}
	if prefs.DefaultCity == "" {
		prefs.DefaultCity = domain.DefaultPreferences().DefaultCity
	}
	return prefs
}

func (s *GuestStore) SetPreferences(ctx context.Context, prefs domain.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.save(preferencesFile, prefs)
}

func (s *GuestStore) ListFavorites(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadFavorites()
}

func (s *GuestStore) AddFavorite(ctx context.Context, city string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities := s.loadFavorites()
	for _, fav := range cities {
		if fav == city {
			return
		}
	}
	s.save(favoritesFile, append(cities, city))
}

func (s *GuestStore) RemoveFavorite(ctx context.Context, city string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities := s.loadFavorites()
	for i, fav := range cities {
		if fav == city {
			s.save(favoritesFile, append(cities[:i], cities[i+1:]...))
			return
		}
	}
}

func (s *GuestStore) loadFavorites() []string {
	var cities []string
	if !s.load(favoritesFile, &cities) {
		return nil
	}

	// A hand-edited file may carry duplicates; drop them, keeping first
	// occurrence order.
	seen := make(map[string]bool, len(cities))
	unique := cities[:0]
	for _, city := range cities {
		if !seen[city] {
			seen[city] = true
			unique = append(unique, city)
		}
	}
	return unique
}

func (s *GuestStore) load(name string, v interface{}) bool {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("guest store: read %s failed: %v", name, err)
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("guest store: %s is corrupt, falling back to defaults: %v", name, err)
		return false
	}
	return true
}

// save writes through a temp file and renames it into place so a crash
// mid-write cannot leave a truncated document behind.
func (s *GuestStore) save(name string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("guest store: marshal %s failed: %v", name, err)
		return
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-")
	if err != nil {
		log.Printf("guest store: write %s failed: %v", name, err)
		return
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		log.Printf("guest store: write %s failed: %v", name, err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		log.Printf("guest store: write %s failed: %v", name, err)
		return
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		log.Printf("guest store: replace %s failed: %v", name, err)
	}
}
