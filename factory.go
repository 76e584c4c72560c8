package cfgchain

// ConfigChainFactory builds chains that follow the standard precedence:
// session instance variable, environment, config file property, default.
// Building chains through the factory keeps that order from being permuted.
type ConfigChainFactory struct {
	session Session
	env     Environ
}

// NewConfigChainFactory creates a factory whose chains read from session and
// env. A nil env reads the process environment.
func NewConfigChainFactory(session Session, env Environ) *ConfigChainFactory {
	if env == nil {
		env = OSEnviron{}
	}
	return &ConfigChainFactory{session: session, env: env}
}

// ChainOption adds a stage (or a conversion) to a chain built by CreateConfigChain.
type ChainOption func(*chainSpec)

type chainSpec struct {
	instanceName       string
	hasInstance        bool
	envVarNames        []string
	configPropertyName string
	hasConfigProperty  bool
	defaultValue       any
	hasDefault         bool
	convert            ConversionFunc
}

// WithInstanceVar reads the named session instance variable.
func WithInstanceVar(name string) ChainOption {
	return func(s *chainSpec) {
		s.instanceName = name
		s.hasInstance = true
	}
}

// WithEnvVars reads the first set variable among names, in order.
// Calling it with no names adds no stage.
func WithEnvVars(names ...string) ChainOption {
	return func(s *chainSpec) {
		s.envVarNames = append(s.envVarNames, names...)
	}
}

// WithConfigProperty reads the named key from the active profile.
func WithConfigProperty(name string) ChainOption {
	return func(s *chainSpec) {
		s.configPropertyName = name
		s.hasConfigProperty = true
	}
}

// WithDefault ends the chain with a constant. The stage is added even when
// value is nil; omit the option to have no default.
func WithDefault(value any) ChainOption {
	return func(s *chainSpec) {
		s.defaultValue = value
		s.hasDefault = true
	}
}

// WithConversion applies fn to the winning value.
func WithConversion(fn ConversionFunc) ChainOption {
	return func(s *chainSpec) {
		s.convert = fn
	}
}

// CreateConfigChain builds a chain containing only the stages named by opts,
// always in the order instance var, environment, config property, default.
func (f *ConfigChainFactory) CreateConfigChain(opts ...ChainOption) *ChainProvider {
	var cs chainSpec
	for _, opt := range opts {
		opt(&cs)
	}

	providers := make([]Provider, 0, 4)
	if cs.hasInstance {
		providers = append(providers, NewInstanceVarProvider(cs.instanceName, f.session))
	}
	if len(cs.envVarNames) > 0 {
		providers = append(providers, NewEnvironmentProvider(f.env, cs.envVarNames...))
	}
	if cs.hasConfigProperty {
		providers = append(providers, NewScopedConfigProvider(cs.configPropertyName, f.session))
	}
	if cs.hasDefault {
		providers = append(providers, NewConstantProvider(cs.defaultValue))
	}

	return NewChainProvider(providers, cs.convert)
}
