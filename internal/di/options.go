package di

// ConfigFile is the path of the YAML config file; empty selects environment variables
type ConfigFile string

// Overrides are command line values that take precedence over the loaded config
type Overrides struct {
	BaseURL string
	Token   string
}

// Option is a function that configures the dependency injection container.
type Option func(*options)

func WithConfigFile(path string) Option {
	return func(opts *options) {
		opts.configFile = ConfigFile(path)
	}
}

func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.overrides.BaseURL = baseURL
	}
}

func WithToken(token string) Option {
	return func(opts *options) {
		opts.overrides.Token = token
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Each provider should be a constructor function that returns one or more values.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
//
// Example:
//
//	WithProviders(
//	    func() *Database { return &Database{} },
//	    func(db *Database) *Service { return &Service{DB: db} },
//	)
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	configFile ConfigFile
	overrides  Overrides
	providers  []any
}
