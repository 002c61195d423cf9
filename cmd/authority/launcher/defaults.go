package launcher

// DefaultConfig returns the compiled-in baseline every authority starts
// from before any config file or CLI flag is applied.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr: "127.0.0.1",
			Port: 9100,
		},
		Logging: LoggingConfig{
			Format:    "text",
			Verbosity: 3,
		},
	}
}
