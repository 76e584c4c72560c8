package cfgchain

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider produces a configuration value from exactly one source.
//
// Implementations must not treat a missing value as an error.
type Provider interface {
	// Provide looks up the value in the provider's source.
	//
	// Parameters:
	//   - ctx: Context passed through to collaborators that may block
	//
	// Returns:
	//   - any: The value, meaningful only when ok is true
	//   - bool: false when the source has no value (Absence)
	//   - error: Collaborator or conversion failures, never "not found"
	Provide(ctx context.Context) (any, bool, error)
}

// Session is the narrow view of session state the providers read from.
// The providers never mutate the returned maps.
type Session interface {
	// InstanceVariables returns the values set on the session at runtime.
	//
	// Parameters:
	//   - ctx: Context for cancellation when the variables live in a database
	//
	// Returns:
	//   - map[string]any: Current instance variables (may be empty, never an error for "none")
	//   - error: Failure reading the backing store
	InstanceVariables(ctx context.Context) (map[string]any, error)

	// ScopedConfig returns the settings of the active profile in the config file.
	//
	// Parameters:
	//   - ctx: Context used while resolving which file and profile to read
	//
	// Returns:
	//   - map[string]any: Key/value settings of the profile (may be empty)
	//   - error: Failure loading or parsing the config file
	ScopedConfig(ctx context.Context) (map[string]any, error)
}

// Environ is a read-only key/value view of environment variables.
type Environ interface {
	LookupEnv(name string) (string, bool)
}

// OSEnviron reads the process environment on every lookup.
type OSEnviron struct{}

func (OSEnviron) LookupEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (OSEnviron) String() string {
	return "os"
}

// MapEnviron is an in-memory environment, mostly useful in tests.
type MapEnviron map[string]string

func (m MapEnviron) LookupEnv(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// ConstantProvider always returns the same value.
type ConstantProvider struct {
	value any
}

// NewConstantProvider creates a provider for value. A nil value is still a
// present value.
func NewConstantProvider(value any) *ConstantProvider {
	return &ConstantProvider{value: value}
}

func (p *ConstantProvider) Provide(_ context.Context) (any, bool, error) {
	return p.value, true, nil
}

func (p *ConstantProvider) String() string {
	return fmt.Sprintf("ConstantProvider(value=%v)", p.value)
}

// EnvironmentProvider returns the value of the first listed variable that is
// set. An empty string counts as set.
type EnvironmentProvider struct {
	names []string
	env   Environ
}

// NewEnvironmentProvider creates a provider that checks names in order.
// A nil env reads the process environment.
func NewEnvironmentProvider(env Environ, names ...string) *EnvironmentProvider {
	if env == nil {
		env = OSEnviron{}
	}
	return &EnvironmentProvider{
		names: append([]string(nil), names...),
		env:   env,
	}
}

func (p *EnvironmentProvider) Provide(_ context.Context) (any, bool, error) {
	for _, name := range p.names {
		if v, ok := p.env.LookupEnv(name); ok {
			return v, true, nil
		}
	}
	return nil, false, nil
}

func (p *EnvironmentProvider) String() string {
	return fmt.Sprintf("EnvironmentProvider(names=[%s])", strings.Join(p.names, ", "))
}

// ScopedConfigProvider reads one key from the session's active profile.
type ScopedConfigProvider struct {
	configVarName string
	session       Session
}

func NewScopedConfigProvider(configVarName string, session Session) *ScopedConfigProvider {
	return &ScopedConfigProvider{configVarName: configVarName, session: session}
}

func (p *ScopedConfigProvider) Provide(ctx context.Context) (any, bool, error) {
	config, err := p.session.ScopedConfig(ctx)
	if err != nil {
		return nil, false, err
	}
	return lookup(config, p.configVarName)
}

func (p *ScopedConfigProvider) String() string {
	return fmt.Sprintf("ScopedConfigProvider(config_var_name=%s)", p.configVarName)
}

// InstanceVarProvider reads one of the session's instance variables.
type InstanceVarProvider struct {
	instanceVar string
	session     Session
}

func NewInstanceVarProvider(instanceVar string, session Session) *InstanceVarProvider {
	return &InstanceVarProvider{instanceVar: instanceVar, session: session}
}

func (p *InstanceVarProvider) Provide(ctx context.Context) (any, bool, error) {
	vars, err := p.session.InstanceVariables(ctx)
	if err != nil {
		return nil, false, err
	}
	return lookup(vars, p.instanceVar)
}

func (p *InstanceVarProvider) String() string {
	return fmt.Sprintf("InstanceVarProvider(instance_var=%s)", p.instanceVar)
}

// lookup treats a key holding nil the same as a missing key. A YAML key with
// no value decodes to nil and must not shadow later sources.
func lookup(m map[string]any, key string) (any, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	return v, true, nil
}
