package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"path/filepath"
	"sync"

	"github.com/spf13/cast"

	"github.com/sagarc03/cfgchain"
	"github.com/sagarc03/cfgchain/profile"
)

// MappingFunc builds the logical-name table of a session from its factory.
type MappingFunc func(f *cfgchain.ConfigChainFactory) map[string]cfgchain.Provider

// Session implements cfgchain.Session and owns the store resolved against it.
// It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	vars  map[string]any
	cache map[string]*profile.File

	repo     VariableRepo
	name     string
	env      cfgchain.Environ
	mapping  MappingFunc
	profile  string
	file     string
	logger   *slog.Logger
	store    *cfgchain.ConfigValueStore
	resolver *cfgchain.ConfigChainFactory
}

// Option configures a Session.
type Option func(*Session)

// WithEnviron sets the environment the chains read. Defaults to the process environment.
func WithEnviron(env cfgchain.Environ) Option {
	return func(s *Session) {
		s.env = env
	}
}

// WithVariableRepo stores instance variables in repo under the session name.
func WithVariableRepo(repo VariableRepo, name string) Option {
	return func(s *Session) {
		s.repo = repo
		s.name = name
	}
}

// WithMapping replaces cfgchain.DefaultConfigMapping as the session's table.
func WithMapping(fn MappingFunc) Option {
	return func(s *Session) {
		s.mapping = fn
	}
}

// WithProfile pins the active profile with a store override.
func WithProfile(name string) Option {
	return func(s *Session) {
		s.profile = name
	}
}

// WithConfigFile pins the profile file path with a store override.
func WithConfigFile(path string) Option {
	return func(s *Session) {
		s.file = path
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a session with in-memory instance variables unless a repo is given.
func New(opts ...Option) *Session {
	s := &Session{
		vars:    make(map[string]any),
		cache:   make(map[string]*profile.File),
		mapping: cfgchain.DefaultConfigMapping,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.resolver = cfgchain.NewConfigChainFactory(s, s.env)
	s.store = cfgchain.NewConfigValueStore(s.mapping(s.resolver))
	if s.profile != "" {
		s.store.SetConfigVariable(cfgchain.Profile, s.profile)
	}
	if s.file != "" {
		s.store.SetConfigVariable(cfgchain.ConfigFile, s.file)
	}

	return s
}

// Store returns the session's value store.
func (s *Session) Store() *cfgchain.ConfigValueStore {
	return s.store
}

// Factory returns the chain factory bound to the session.
func (s *Session) Factory() *cfgchain.ConfigChainFactory {
	return s.resolver
}

// GetConfigVariable resolves name through the session's store.
func (s *Session) GetConfigVariable(ctx context.Context, name string) (any, bool, error) {
	return s.store.GetConfigVariable(ctx, name)
}

// InstanceVariables returns the session's instance variables. With a repo
// configured every call reads the repo.
func (s *Session) InstanceVariables(ctx context.Context) (map[string]any, error) {
	if s.repo != nil {
		vars, err := s.repo.List(ctx, s.name)
		if err != nil {
			return nil, fmt.Errorf("list instance variables: %w", err)
		}
		return vars, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.vars), nil
}

// SetInstanceVariable sets an instance variable.
func (s *Session) SetInstanceVariable(ctx context.Context, name string, value any) error {
	if s.repo != nil {
		if err := s.repo.Set(ctx, s.name, name, value); err != nil {
			return fmt.Errorf("set instance variable %s: %w", name, err)
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[name] = value
	return nil
}

// DeleteInstanceVariable removes an instance variable.
// Returns ErrNotFound if it is not set.
func (s *Session) DeleteInstanceVariable(ctx context.Context, name string) error {
	if s.repo != nil {
		if err := s.repo.Delete(ctx, s.name, name); err != nil {
			return fmt.Errorf("delete instance variable %s: %w", name, err)
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vars[name]; !ok {
		return fmt.Errorf("delete instance variable %s: %w", name, ErrNotFound)
	}
	delete(s.vars, name)
	return nil
}

type scopedKey struct{}

// ScopedConfig returns the settings of the active profile.
//
// A missing config file has no profiles. A profile that is not in the file
// is ErrProfileNotFound when it was chosen explicitly, whatever its name, and
// an empty map when it is the implicit default.
func (s *Session) ScopedConfig(ctx context.Context) (map[string]any, error) {
	// Resolving the file and profile must not read the profile again.
	if ctx.Value(scopedKey{}) != nil {
		return map[string]any{}, nil
	}
	ctx = context.WithValue(ctx, scopedKey{}, struct{}{})

	path, err := s.ConfigFilePath(ctx)
	if err != nil {
		return nil, err
	}
	name, explicit, err := s.profileName(ctx)
	if err != nil {
		return nil, err
	}

	f, err := s.loadFile(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		f = profile.New()
	}

	section, ok := f.Section(name)
	if !ok {
		if explicit {
			return nil, fmt.Errorf("scoped config: %w: %s", profile.ErrProfileNotFound, name)
		}
		return map[string]any{}, nil
	}
	return section, nil
}

// ProfileName returns the active profile, cfgchain.DefaultProfile when none is set.
func (s *Session) ProfileName(ctx context.Context) (string, error) {
	name, _, err := s.profileName(ctx)
	return name, err
}

// ConfigFilePath returns the resolved config file path with "~" expanded.
func (s *Session) ConfigFilePath(ctx context.Context) (string, error) {
	v, ok, err := s.store.GetConfigVariable(ctx, cfgchain.ConfigFile)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", cfgchain.ConfigFile, err)
	}
	path := cfgchain.DefaultConfigFile
	if ok {
		if path, err = cast.ToStringE(v); err != nil {
			return "", fmt.Errorf("resolve %s: %w", cfgchain.ConfigFile, err)
		}
	}
	return filepath.Clean(profile.ExpandHome(path)), nil
}

func (s *Session) profileName(ctx context.Context) (string, bool, error) {
	v, ok, err := s.store.GetConfigVariable(ctx, cfgchain.Profile)
	if err != nil {
		return "", false, fmt.Errorf("resolve %s: %w", cfgchain.Profile, err)
	}
	if !ok {
		return cfgchain.DefaultProfile, false, nil
	}
	name, err := cast.ToStringE(v)
	if err != nil {
		return "", false, fmt.Errorf("resolve %s: %w", cfgchain.Profile, err)
	}
	return name, true, nil
}

// loadFile returns the parsed file at path, or nil when it does not exist.
// Parsed files are cached until Invalidate is called.
func (s *Session) loadFile(path string) (*profile.File, error) {
	s.mu.RLock()
	f, ok := s.cache[path]
	s.mu.RUnlock()
	if ok {
		return f, nil
	}

	f, err := profile.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load config file %s: %w", path, err)
	}

	s.mu.Lock()
	s.cache[path] = f
	s.mu.Unlock()

	s.logger.Debug("config file loaded", "path", path, "profiles", len(f.Profiles))
	return f, nil
}

// Invalidate drops the cached copy of the config file at path.
func (s *Session) Invalidate(path string) {
	path = filepath.Clean(path)

	s.mu.Lock()
	_, ok := s.cache[path]
	delete(s.cache, path)
	s.mu.Unlock()

	if ok {
		s.logger.Debug("config file cache invalidated", "path", path)
	}
}
