package cfgchain

// Logical names of the standard configuration table.
const (
	Profile                    = "profile"
	Region                     = "region"
	DataPath                   = "data_path"
	ConfigFile                 = "config_file"
	CABundle                   = "ca_bundle"
	APIVersions                = "api_versions"
	CredentialsFile            = "credentials_file"
	MetadataServiceTimeout     = "metadata_service_timeout"
	MetadataServiceNumAttempts = "metadata_service_num_attempts"
	ParameterValidation        = "parameter_validation"
)

// Built-in defaults of the standard table.
const (
	DefaultConfigFile      = "~/.aws/config"
	DefaultCredentialsFile = "~/.aws/credentials"
	DefaultProfile         = "default"
)

// DefaultConfigMapping returns the standard table of logical names, each
// bound to a chain built by f.
//
// The profile and config_file chains have no config file stage: the session
// resolves them before it can read the config file.
func DefaultConfigMapping(f *ConfigChainFactory) map[string]Provider {
	return map[string]Provider{
		Profile: f.CreateConfigChain(
			WithInstanceVar(Profile),
			WithEnvVars("AWS_DEFAULT_PROFILE", "AWS_PROFILE"),
		),
		Region: f.CreateConfigChain(
			WithInstanceVar(Region),
			WithEnvVars("AWS_DEFAULT_REGION"),
			WithConfigProperty(Region),
		),
		DataPath: f.CreateConfigChain(
			WithInstanceVar(DataPath),
			WithEnvVars("AWS_DATA_PATH"),
			WithConfigProperty(DataPath),
		),
		ConfigFile: f.CreateConfigChain(
			WithInstanceVar(ConfigFile),
			WithEnvVars("AWS_CONFIG_FILE"),
			WithDefault(DefaultConfigFile),
		),
		CABundle: f.CreateConfigChain(
			WithInstanceVar(CABundle),
			WithEnvVars("AWS_CA_BUNDLE"),
			WithConfigProperty(CABundle),
		),
		APIVersions: f.CreateConfigChain(
			WithInstanceVar(APIVersions),
			WithConfigProperty(APIVersions),
			WithDefault(map[string]any{}),
		),
		CredentialsFile: f.CreateConfigChain(
			WithInstanceVar(CredentialsFile),
			WithEnvVars("AWS_SHARED_CREDENTIALS_FILE"),
			WithDefault(DefaultCredentialsFile),
		),
		MetadataServiceTimeout: f.CreateConfigChain(
			WithInstanceVar(MetadataServiceTimeout),
			WithEnvVars("AWS_METADATA_SERVICE_TIMEOUT"),
			WithConfigProperty(MetadataServiceTimeout),
			WithDefault(1),
			WithConversion(ToInt),
		),
		MetadataServiceNumAttempts: f.CreateConfigChain(
			WithInstanceVar(MetadataServiceNumAttempts),
			WithEnvVars("AWS_METADATA_SERVICE_NUM_ATTEMPTS"),
			WithConfigProperty(MetadataServiceNumAttempts),
			WithDefault(1),
			WithConversion(ToInt),
		),
		ParameterValidation: f.CreateConfigChain(
			WithInstanceVar(ParameterValidation),
			WithConfigProperty(ParameterValidation),
			WithDefault(true),
		),
	}
}
