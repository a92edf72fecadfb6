package config

import (
	"fmt"
	"os"
	"time"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	baseURLVar    = "BASE_URL"
	codeTTLVar    = "AUTH_CODE_TTL"
	sessionTTLVar = "SESSION_TTL"
	codeSweepVar  = "CODE_SWEEP_INTERVAL"
	seedDemoVar   = "SEED_DEMO"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Resource Auth Server")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBaseURL returns the base URL for the authorization server
// (e.g. "https://auth.example.com"). Used when building the authorize
// continuation URL handed back after login.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

// Flow implements FlowConfig from environment variables.
type Flow struct{}

var _ FlowConfig = Flow{}

// GetAuthCodeTTL returns how long an issued authorization code stays
// redeemable. Redeeming past this window fails with an expiry error.
func (Flow) GetAuthCodeTTL() time.Duration {
	return getDuration(codeTTLVar, 10*time.Minute)
}

func (Flow) GetSessionTTL() time.Duration {
	return getDuration(sessionTTLVar, time.Hour)
}

// GetCodeSweepInterval controls the janitor that removes expired codes.
func (Flow) GetCodeSweepInterval() time.Duration {
	return getDuration(codeSweepVar, 5*time.Minute)
}

func (Flow) SeedDemoData() bool {
	return GetEnv(seedDemoVar, "false") == "true"
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
