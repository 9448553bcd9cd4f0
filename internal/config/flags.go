package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args (usually os.Args[1:]).
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-d database DSN
//	-r redis address in format [host]:[port]
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-access-token-ttl access token lifetime (e.g., "30m")
//	-refresh-token-ttl refresh token lifetime (e.g., "168h")
//	-password-reset-ttl password reset token lifetime (e.g., "1h")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-shutdown-timeout graceful shutdown budget
//	-log-level zerolog level name
//	-auth-limit auth requests per window
//	-general-limit api requests per window
//	-mail-url mail relay base URL
//	-sweep-schedule cron spec of the maintenance sweep
func ParseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	var databaseDSN string
	var redisAddress string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var accessTokenTTL time.Duration
	var refreshTokenTTL time.Duration
	var passwordResetTTL time.Duration
	var shutdownTimeout time.Duration
	var sweepSchedule string
	var requestTimeout time.Duration
	var logLevel string
	var authLimit int
	var generalLimit int
	var mailURL string

	fs := flag.NewFlagSet("go-task-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&redisAddress, "r", "", "Redis address host:port")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&accessTokenTTL, "access-token-ttl", 0, "Access token lifetime (e.g., 30m)")
	fs.DurationVar(&refreshTokenTTL, "refresh-token-ttl", 0, "Refresh token lifetime (e.g., 168h)")
	fs.DurationVar(&passwordResetTTL, "password-reset-ttl", 0, "Password reset token lifetime (e.g., 1h)")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown budget")
	fs.StringVar(&sweepSchedule, "sweep-schedule", "", "Cron spec of the maintenance sweep")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.IntVar(&authLimit, "auth-limit", 0, "Auth requests per window")
	fs.IntVar(&generalLimit, "general-limit", 0, "API requests per window")
	fs.StringVar(&mailURL, "mail-url", "", "Mail relay base URL")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogLevel:         logLevel,
			TokenSignKey:     tokenSignKey,
			TokenIssuer:      tokenIssuer,
			AccessTokenTTL:   accessTokenTTL,
			RefreshTokenTTL:  refreshTokenTTL,
			PasswordResetTTL: passwordResetTTL,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Cache: Cache{Address: redisAddress},
		},
		Server: Server{
			HTTPAddress:     serverAddress.String(),
			GRPCAddress:     grpcServerAddress.String(),
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		RateLimit: RateLimit{
			AuthLimit:     authLimit,
			GeneralLimit:  generalLimit,
			SweepSchedule: sweepSchedule,
		},
		Adapter: Adapter{
			Mail: Mail{BaseURL: mailURL},
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String renders the address as host:port, bracketing IPv6 hosts.
// The zero value renders as an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set implements flag.Value. The host may be empty, an IP literal or a
// DNS name such as a compose service; the port must be in 1..65535.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("need address in a form `host:port`: %w", err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", rawPort, err)
	}
	if port < 1 || port > 65535 {
		return errPortOutOfRange
	}

	if host != "" && net.ParseIP(host) == nil && !isHostname(host) {
		return fmt.Errorf("invalid host %q", host)
	}

	a.Host = host
	a.Port = port
	return nil
}

var errPortOutOfRange = errors.New("port must be between 1 and 65535")

func isHostname(host string) bool {
	if len(host) > 253 {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 63 || label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if !(r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
				return false
			}
		}
	}
	return true
}
