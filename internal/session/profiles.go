// Package session keeps the client's local state: named server profiles, the
// signed-in user and tokens for each profile, and favorite ideas.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ideafactory/ideas/internal/model"
)

// DefaultProfile is used when no profile has been selected.
const DefaultProfile = "default"

const (
	profilesFile  = "profiles.toml"
	favoritesFile = "favorites.toml"
)

// Profiles holds all named profiles and tracks which one is active.
type Profiles struct {
	Active   string             `toml:"active"`
	Profiles map[string]Profile `toml:"profiles"`
}

// Profile is a named server endpoint plus the credentials obtained against it.
type Profile struct {
	APIURL     string      `toml:"api_url"`
	AdminURL   string      `toml:"admin_url,omitempty"`
	NATSURL    string      `toml:"nats_url,omitempty"`
	Token      string      `toml:"token,omitempty"`
	User       *model.User `toml:"user,omitempty"`
	AdminToken string      `toml:"admin_token,omitempty"`
	AdminUser  string      `toml:"admin_user,omitempty"`
}

// ActiveName returns the active profile name, or DefaultProfile.
func (p Profiles) ActiveName() string {
	if p.Active == "" {
		return DefaultProfile
	}
	return p.Active
}

// State is the on-disk state directory.
type State struct {
	dir string
}

// Open returns the state rooted at dir, creating it with owner-only
// permissions.
func Open(dir string) (*State, error) {
	if dir == "" {
		return nil, errors.New("session: empty state directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	return &State{dir: dir}, nil
}

// Dir returns the state directory.
func (s *State) Dir() string { return s.dir }

func (s *State) path(name string) string { return filepath.Join(s.dir, name) }

// LoadProfiles reads profiles.toml. A missing file yields an empty set.
func (s *State) LoadProfiles() (Profiles, error) {
	var p Profiles
	if _, err := toml.DecodeFile(s.path(profilesFile), &p); err != nil {
		if os.IsNotExist(err) {
			return Profiles{Profiles: map[string]Profile{}}, nil
		}
		return Profiles{}, fmt.Errorf("reading profiles: %w", err)
	}
	if p.Profiles == nil {
		p.Profiles = map[string]Profile{}
	}
	return p, nil
}

// SaveProfiles writes profiles.toml with owner-only permissions.
func (s *State) SaveProfiles(p Profiles) error {
	return writeTOML(s.path(profilesFile), p)
}

// Active returns the name and contents of the active profile. The profile is
// zero when it has not been saved yet.
func (s *State) Active() (string, Profile, error) {
	p, err := s.LoadProfiles()
	if err != nil {
		return "", Profile{}, err
	}
	name := p.ActiveName()
	return name, p.Profiles[name], nil
}

// UpdateActive applies fn to the active profile and saves the result.
func (s *State) UpdateActive(fn func(*Profile)) error {
	p, err := s.LoadProfiles()
	if err != nil {
		return err
	}
	name := p.ActiveName()
	prof := p.Profiles[name]
	fn(&prof)
	p.Profiles[name] = prof
	return s.SaveProfiles(p)
}

func writeTOML(path string, v any) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
