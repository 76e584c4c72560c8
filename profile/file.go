package profile

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// File holds every profile of a profile file.
type File struct {
	Profiles map[string]map[string]any `yaml:"profiles"`
}

// New returns an empty profile file.
func New() *File {
	return &File{Profiles: make(map[string]map[string]any)}
}

// Section returns a copy of the settings of the named profile.
// A profile declared without settings is present and empty.
func (f *File) Section(name string) (map[string]any, bool) {
	section, ok := f.Profiles[name]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(section))
	maps.Copy(out, section)
	return out, true
}

// Set stores value under key in the named profile, creating the profile if needed.
func (f *File) Set(name, key string, value any) {
	if f.Profiles == nil {
		f.Profiles = make(map[string]map[string]any)
	}
	section := f.Profiles[name]
	if section == nil {
		section = make(map[string]any)
		f.Profiles[name] = section
	}
	section[key] = value
}

// Unset removes key from the named profile.
func (f *File) Unset(name, key string) error {
	section, ok := f.Profiles[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	if _, ok := section[key]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrKeyNotFound, name, key)
	}
	delete(section, key)
	return nil
}

// RemoveProfile removes a profile by name.
func (f *File) RemoveProfile(name string) error {
	if _, ok := f.Profiles[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	delete(f.Profiles, name)
	return nil
}

// Names returns the profile names in sorted order.
func (f *File) Names() []string {
	return slices.Sorted(maps.Keys(f.Profiles))
}

// Save writes the file to the specified path.
// Creates the parent directory if it doesn't exist.
func (f *File) Save(path string) error {
	cleanPath := filepath.Clean(path)

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal profile file: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write profile file: %w", err)
	}

	return nil
}

// Load reads the profile file at path. A missing file is reported with an
// error wrapping fs.ErrNotExist.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //#nosec G304 -- path is user-provided profile file
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a profile file from YAML.
func Parse(data []byte) (*File, error) {
	f := New()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse profile file: %w", err)
	}
	if f.Profiles == nil {
		f.Profiles = make(map[string]map[string]any)
	}
	return f, nil
}

// ExpandHome replaces a leading "~" with the current user's home directory.
// Paths without one, or when the home directory is unknown, are returned as is.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
