package config

const (
	defaultDataDir               = "~/.local/share/hylla"
	defaultLogDir                = "~/.local/share/hylla/logs"
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBLanguage          = "en-US"
	defaultOMDBBaseURL           = "https://www.omdbapi.com"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultNotifyRequestTimeout  = 10
	defaultNotifyIntegrityAlerts = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		OMDB: OMDB{
			BaseURL: defaultOMDBBaseURL,
		},
		Notifications: Notifications{
			RequestTimeout:  defaultNotifyRequestTimeout,
			IntegrityAlerts: defaultNotifyIntegrityAlerts,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
