package config

import "time"

// Defaults used when no source sets a value.
const (
	DefaultAppName          = "TaskFlow API"
	DefaultAppVersion       = "1.0.0"
	DefaultLogLevel         = "info"
	DefaultTokenIssuer      = "go-task-keeper"
	DefaultAccessTokenTTL   = 30 * time.Minute
	DefaultRefreshTokenTTL  = 7 * 24 * time.Hour
	DefaultPasswordResetTTL = time.Hour

	DefaultHTTPAddress     = "localhost:8000"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultCacheAddress = "localhost:6379"
	DefaultCacheTimeout = 5 * time.Second

	DefaultAuthLimit     = 10
	DefaultGeneralLimit  = 100
	DefaultWindow        = time.Minute
	DefaultLimitTimeout  = 200 * time.Millisecond
	DefaultSweepSchedule = "@every 1m"

	DefaultMailFrom     = "noreply@taskflow.local"
	DefaultMailResetURL = "http://localhost:3000/reset-password"
	DefaultMailTimeout  = 10 * time.Second

	DefaultMailQueueSize = 100
	DefaultMailWorkers   = 2
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Name:             DefaultAppName,
			Version:          DefaultAppVersion,
			LogLevel:         DefaultLogLevel,
			TokenIssuer:      DefaultTokenIssuer,
			AccessTokenTTL:   DefaultAccessTokenTTL,
			RefreshTokenTTL:  DefaultRefreshTokenTTL,
			PasswordResetTTL: DefaultPasswordResetTTL,
		},
		Storage: Storage{
			Cache: Cache{
				Address:      DefaultCacheAddress,
				DialTimeout:  DefaultCacheTimeout,
				ReadTimeout:  DefaultCacheTimeout,
				WriteTimeout: DefaultCacheTimeout,
			},
		},
		Server: Server{
			HTTPAddress:     DefaultHTTPAddress,
			RequestTimeout:  DefaultRequestTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		RateLimit: RateLimit{
			AuthLimit:     DefaultAuthLimit,
			GeneralLimit:  DefaultGeneralLimit,
			Window:        DefaultWindow,
			Timeout:       DefaultLimitTimeout,
			SweepSchedule: DefaultSweepSchedule,
		},
		Adapter: Adapter{
			Mail: Mail{
				From:     DefaultMailFrom,
				ResetURL: DefaultMailResetURL,
				Timeout:  DefaultMailTimeout,
			},
		},
		Workers: Workers{
			MailQueueSize: DefaultMailQueueSize,
			MailWorkers:   DefaultMailWorkers,
		},
	}
}
