package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		Name             string   `json:"name"`
		Version          string   `json:"version"`
		LogLevel         string   `json:"log_level"`
		TokenSignKey     string   `json:"token_sign_key"`
		TokenIssuer      string   `json:"token_issuer"`
		AccessTokenTTL   Duration `json:"access_token_ttl"`
		RefreshTokenTTL  Duration `json:"refresh_token_ttl"`
		PasswordResetTTL Duration `json:"password_reset_ttl"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Cache struct {
			Address      string   `json:"address"`
			Password     string   `json:"password"`
			DB           int      `json:"db"`
			DialTimeout  Duration `json:"dial_timeout"`
			ReadTimeout  Duration `json:"read_timeout"`
			WriteTimeout Duration `json:"write_timeout"`
		} `json:"cache,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		GRPCAddress     string   `json:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
		TrustedProxies  []string `json:"trusted_proxies"`
	} `json:"server,omitempty"`

	RateLimit struct {
		AuthLimit     int      `json:"auth_limit"`
		GeneralLimit  int      `json:"general_limit"`
		Window        Duration `json:"window"`
		Timeout       Duration `json:"timeout"`
		SweepSchedule string   `json:"sweep_schedule"`
	} `json:"rate_limit,omitempty"`

	Adapter struct {
		Mail struct {
			BaseURL  string   `json:"base_url"`
			APIKey   string   `json:"api_key"`
			From     string   `json:"from"`
			ResetURL string   `json:"reset_url"`
			Timeout  Duration `json:"timeout"`
		} `json:"mail,omitempty"`
	} `json:"adapter,omitempty"`

	Workers struct {
		MailQueueSize int `json:"mail_queue_size"`
		MailWorkers   int `json:"mail_workers"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Name:             jsonCfg.App.Name,
			Version:          jsonCfg.App.Version,
			LogLevel:         jsonCfg.App.LogLevel,
			TokenSignKey:     jsonCfg.App.TokenSignKey,
			TokenIssuer:      jsonCfg.App.TokenIssuer,
			AccessTokenTTL:   time.Duration(jsonCfg.App.AccessTokenTTL),
			RefreshTokenTTL:  time.Duration(jsonCfg.App.RefreshTokenTTL),
			PasswordResetTTL: time.Duration(jsonCfg.App.PasswordResetTTL),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Cache: Cache{
				Address:      jsonCfg.Storage.Cache.Address,
				Password:     jsonCfg.Storage.Cache.Password,
				DB:           jsonCfg.Storage.Cache.DB,
				DialTimeout:  time.Duration(jsonCfg.Storage.Cache.DialTimeout),
				ReadTimeout:  time.Duration(jsonCfg.Storage.Cache.ReadTimeout),
				WriteTimeout: time.Duration(jsonCfg.Storage.Cache.WriteTimeout),
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			GRPCAddress:     jsonCfg.Server.GRPCAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
			TrustedProxies:  jsonCfg.Server.TrustedProxies,
		},
		RateLimit: RateLimit{
			AuthLimit:     jsonCfg.RateLimit.AuthLimit,
			GeneralLimit:  jsonCfg.RateLimit.GeneralLimit,
			Window:        time.Duration(jsonCfg.RateLimit.Window),
			Timeout:       time.Duration(jsonCfg.RateLimit.Timeout),
			SweepSchedule: jsonCfg.RateLimit.SweepSchedule,
		},
		Adapter: Adapter{
			Mail: Mail{
				BaseURL:  jsonCfg.Adapter.Mail.BaseURL,
				APIKey:   jsonCfg.Adapter.Mail.APIKey,
				From:     jsonCfg.Adapter.Mail.From,
				ResetURL: jsonCfg.Adapter.Mail.ResetURL,
				Timeout:  time.Duration(jsonCfg.Adapter.Mail.Timeout),
			},
		},
		Workers: Workers{
			MailQueueSize: jsonCfg.Workers.MailQueueSize,
			MailWorkers:   jsonCfg.Workers.MailWorkers,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
