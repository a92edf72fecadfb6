package config

import "time"

type Config interface {
	EnvConfig
	FlowConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

// FlowConfig carries the tunables of the authorization flow itself.
type FlowConfig interface {
	GetAuthCodeTTL() time.Duration
	GetSessionTTL() time.Duration
	GetCodeSweepInterval() time.Duration
	SeedDemoData() bool
}

type mainConfig struct {
	EnvVars
	Flow
}

func New() Config {
	return mainConfig{}
}
