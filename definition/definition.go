package definition

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/cfgchain"
)

// Variable describes the chain of one logical name.
type Variable struct {
	Name           string   `yaml:"name" validate:"required,max=128,printascii"`
	InstanceVar    string   `yaml:"instance_var,omitempty"`
	EnvVars        []string `yaml:"env_vars,omitempty" validate:"dive,required"`
	ConfigProperty string   `yaml:"config_property,omitempty"`
	Default        any      `yaml:"default,omitempty"`
	Type           string   `yaml:"type,omitempty" validate:"omitempty,oneof=int bool float duration string string_slice"`

	// HasDefault reports whether the default key was given, which Default
	// alone cannot tell apart from an explicit null.
	HasDefault bool `yaml:"-"`
}

// Table is a set of variable definitions.
type Table struct {
	Variables []Variable `yaml:"variables" validate:"unique=Name,dive"`
}

// MappingFunc builds a logical-name table from a factory.
type MappingFunc func(f *cfgchain.ConfigChainFactory) map[string]cfgchain.Provider

// Load reads and validates the definition file at path.
func Load(path string) (*Table, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //#nosec G304 -- path is user-provided definition file
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return t, nil
}

// Parse decodes and validates definitions from YAML.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}

	// A second pass over the raw entries records which ones set a default.
	var raw struct {
		Variables []map[string]any `yaml:"variables"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}
	for i := range t.Variables {
		if i < len(raw.Variables) {
			_, t.Variables[i].HasDefault = raw.Variables[i]["default"]
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the table's fields.
func (t *Table) Validate() error {
	if err := validator.New().Struct(t); err != nil {
		return fmt.Errorf("validate definitions: %w", err)
	}
	return nil
}

// Build creates a chain for every variable through f.
func (t *Table) Build(f *cfgchain.ConfigChainFactory) (map[string]cfgchain.Provider, error) {
	mapping := make(map[string]cfgchain.Provider, len(t.Variables))
	for _, v := range t.Variables {
		convert, err := cfgchain.ConversionByName(v.Type)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.Name, err)
		}
		mapping[v.Name] = f.CreateConfigChain(v.options(convert)...)
	}
	return mapping, nil
}

func (v Variable) options(convert cfgchain.ConversionFunc) []cfgchain.ChainOption {
	var opts []cfgchain.ChainOption
	if v.InstanceVar != "" {
		opts = append(opts, cfgchain.WithInstanceVar(v.InstanceVar))
	}
	if len(v.EnvVars) > 0 {
		opts = append(opts, cfgchain.WithEnvVars(v.EnvVars...))
	}
	if v.ConfigProperty != "" {
		opts = append(opts, cfgchain.WithConfigProperty(v.ConfigProperty))
	}
	if v.HasDefault {
		opts = append(opts, cfgchain.WithDefault(v.Default))
	}
	if convert != nil {
		opts = append(opts, cfgchain.WithConversion(convert))
	}
	return opts
}

// Extend returns a mapping function that layers the table over base.
// Definitions replace base entries of the same name. base may be nil.
func (t *Table) Extend(base MappingFunc) (MappingFunc, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	for _, v := range t.Variables {
		if _, err := cfgchain.ConversionByName(v.Type); err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.Name, err)
		}
	}

	return func(f *cfgchain.ConfigChainFactory) map[string]cfgchain.Provider {
		mapping := make(map[string]cfgchain.Provider)
		if base != nil {
			mapping = base(f)
		}
		// Conversions were checked above.
		built, _ := t.Build(f)
		maps.Copy(mapping, built)
		return mapping
	}, nil
}
