package preferences

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"

	DefaultTheme = ThemeDark
)

// ParseTheme unknown or empty values fall back to the default
func ParseTheme(s string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight
	default:
		return DefaultTheme
	}
}

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

type file struct {
	Theme string `toml:"theme"`
}

// Store persists UI preferences in a TOML file.
type Store struct {
	path string
	mu   sync.Mutex
}

// DefaultPath $XDG_CONFIG_HOME/todo/preferences.toml (or the OS equivalent)
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "todo", "preferences.toml"), nil
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the saved theme. A missing file is not an error; an
// unreadable one returns the default theme together with the error.
func (s *Store) Load() (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Theme, error) {
	var f file
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultTheme, nil
		}
		return DefaultTheme, fmt.Errorf("reading preferences %s: %w", s.path, err)
	}
	return ParseTheme(f.Theme), nil
}

func (s *Store) Save(theme Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(theme)
}

func (s *Store) save(theme Theme) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".preferences-*.toml")
	if err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(file{Theme: string(ParseTheme(string(theme)))}); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}

// Toggle flips the saved theme and returns the new one. A corrupt file is
// treated as the default theme and overwritten.
func (s *Store) Toggle() (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, _ := s.load()
	next := cur.Toggle()
	if err := s.save(next); err != nil {
		return cur, err
	}
	return next, nil
}
