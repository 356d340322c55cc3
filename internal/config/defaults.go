package config

const (
	defaultDatabaseDir        = "database"
	defaultReportDir          = "."
	defaultSubmissionFile     = "submission.json"
	defaultIGDBBaseURL        = "https://api.igdb.com/v4"
	defaultIGDBTokenURL       = "https://id.twitch.tv/oauth2/token"
	defaultIGDBRequestRate    = 4
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBRequestRate    = 40
	defaultYouTubeBaseURL     = "https://www.googleapis.com/youtube/v3"
	defaultYouTubeRequestRate = 10
	defaultMinDurationSeconds = 30
	defaultMaxDurationSeconds = 300
	defaultWorkers            = 10
	defaultMaxAttempts        = 8
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatabaseDir:    defaultDatabaseDir,
			ReportDir:      defaultReportDir,
			SubmissionFile: defaultSubmissionFile,
		},
		IGDB: IGDB{
			BaseURL:           defaultIGDBBaseURL,
			TokenURL:          defaultIGDBTokenURL,
			RequestsPerSecond: defaultIGDBRequestRate,
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			RequestsPerSecond: defaultTMDBRequestRate,
		},
		YouTube: YouTube{
			BaseURL:            defaultYouTubeBaseURL,
			RequestsPerSecond:  defaultYouTubeRequestRate,
			MinDurationSeconds: defaultMinDurationSeconds,
			MaxDurationSeconds: defaultMaxDurationSeconds,
		},
		Updater: Updater{
			Workers:     defaultWorkers,
			MaxAttempts: defaultMaxAttempts,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
