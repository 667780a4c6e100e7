package session

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/BurntSushi/toml"
)

type favoritesDoc struct {
	IDs []string `toml:"ids"`
}

// FileFavorites persists favorite idea IDs in favorites.toml. It is safe for
// concurrent use within one process.
type FileFavorites struct {
	path string
	mu   sync.Mutex
}

// Favorites returns the favorites file of the state directory.
func (s *State) Favorites() *FileFavorites {
	return &FileFavorites{path: s.path(favoritesFile)}
}

func (f *FileFavorites) load() (favoritesDoc, error) {
	var doc favoritesDoc
	if _, err := toml.DecodeFile(f.path, &doc); err != nil {
		if os.IsNotExist(err) {
			return favoritesDoc{}, nil
		}
		return favoritesDoc{}, fmt.Errorf("reading favorites: %w", err)
	}
	return doc, nil
}

// Favorites returns the set of favorite IDs.
func (f *FileFavorites) Favorites() (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(doc.IDs))
	for _, id := range doc.IDs {
		out[id] = true
	}
	return out, nil
}

// SetFavorite adds or removes one ID.
func (f *FileFavorites) SetFavorite(id string, favorite bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	i := slices.Index(doc.IDs, id)
	switch {
	case favorite && i < 0:
		doc.IDs = append(doc.IDs, id)
	case !favorite && i >= 0:
		doc.IDs = slices.Delete(doc.IDs, i, i+1)
	default:
		return nil
	}
	slices.Sort(doc.IDs)
	return writeTOML(f.path, doc)
}
