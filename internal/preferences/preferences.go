package preferences

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "task-manager.com/task-manager/internal/errors"
)

type Theme string

const (
	ThemeLight Theme = "Light"
	ThemeDark  Theme = "Dark"
)

const (
	DefaultFontSize    = 12
	DefaultColorScheme = "Default"
	// FontStep is how much one "larger font" action adds.
	FontStep = 2
)

type Preferences struct {
	Theme       Theme  `json:"theme"`
	FontSize    int    `json:"font_size"`
	ColorScheme string `json:"color_scheme"`
}

func Defaults() Preferences {
	return Preferences{
		Theme:       ThemeLight,
		FontSize:    DefaultFontSize,
		ColorScheme: DefaultColorScheme,
	}
}

func ParseTheme(s string) (Theme, error) {
	for _, t := range []Theme{ThemeLight, ThemeDark} {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown theme %q (expected Light or Dark)", apperrors.ErrValidation, s)
}

func (p Preferences) Validate() error {
	if _, err := ParseTheme(string(p.Theme)); err != nil {
		return err
	}
	if p.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be greater than 0", apperrors.ErrValidation)
	}
	if strings.TrimSpace(p.ColorScheme) == "" {
		return fmt.Errorf("%w: color scheme is required", apperrors.ErrValidation)
	}
	return nil
}

// Store keeps preferences in a small JSON file. Every change is written
// straight back to disk.
type Store struct {
	mu    sync.RWMutex
	path  string
	prefs Preferences
}

// Load reads path, filling in defaults for a missing file or missing keys.
func Load(path string) (*Store, error) {
	s := &Store{path: path, prefs: Defaults()}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read preferences: %w", err)
	}

	loaded := Defaults()
	if err := json.Unmarshal(b, &loaded); err != nil {
		return nil, fmt.Errorf("decode preferences %s: %w", path, err)
	}
	if loaded.Theme == "" {
		loaded.Theme = ThemeLight
	}
	if loaded.FontSize == 0 {
		loaded.FontSize = DefaultFontSize
	}
	if loaded.ColorScheme == "" {
		loaded.ColorScheme = DefaultColorScheme
	}
	if theme, err := ParseTheme(string(loaded.Theme)); err == nil {
		loaded.Theme = theme
	}
	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("preferences %s: %w", path, err)
	}

	s.prefs = loaded
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func (s *Store) ApplyTheme(theme string) (Preferences, error) {
	t, err := ParseTheme(theme)
	if err != nil {
		return s.Get(), err
	}
	return s.update(func(p *Preferences) { p.Theme = t })
}

// ToggleTheme flips between Light and Dark.
func (s *Store) ToggleTheme() (Preferences, error) {
	return s.update(func(p *Preferences) {
		if p.Theme == ThemeLight {
			p.Theme = ThemeDark
		} else {
			p.Theme = ThemeLight
		}
	})
}

func (s *Store) ChangeFontSize(size int) (Preferences, error) {
	return s.update(func(p *Preferences) { p.FontSize = size })
}

func (s *Store) UpdateColorScheme(scheme string) (Preferences, error) {
	return s.update(func(p *Preferences) { p.ColorScheme = strings.TrimSpace(scheme) })
}

// Update applies change to the current preferences under the store lock, so
// concurrent callers touching different fields never lose each other's write.
// Nothing is saved when the result is invalid.
func (s *Store) Update(change func(*Preferences)) (Preferences, error) {
	return s.update(change)
}

func (s *Store) update(change func(*Preferences)) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs
	change(&next)
	if err := next.Validate(); err != nil {
		return s.prefs, err
	}
	if err := s.saveLocked(next); err != nil {
		return s.prefs, err
	}
	s.prefs = next
	return next, nil
}

// saveLocked writes through a temp file and rename so a crash never leaves a
// truncated file behind.
func (s *Store) saveLocked(p Preferences) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*.json")
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("save preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
