package config

const (
	defaultAPIURL         = "http://localhost:8000"
	defaultRequestTimeout = 15
	defaultStatePath      = "~/.config/intervox/session.json"
	defaultMaxFileMiB     = 500
	defaultPollInterval   = 5
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			APIURL:         defaultAPIURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Auth: Auth{
			StatePath: defaultStatePath,
		},
		Upload: Upload{
			MaxFileMiB: defaultMaxFileMiB,
		},
		Workflow: Workflow{
			PollInterval: defaultPollInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
