package app

import (
	"os"
	"strconv"
	"time"

	"github.com/millhouse-dev/taskgate/internal/gate/domain"
	"github.com/millhouse-dev/taskgate/internal/gate/service"
)

type Config struct {
	Issuer string // Optional: issuer claim for session tokens (default: taskgate)

	DatabaseFile    string // Optional: path to SQLite database file (default: ./taskgate.db)
	DeviceKeyFile   string // Optional: path to the device key file (default: ./device.key)
	BiometricHelper string // Optional: path to the biometric helper binary (empty disables biometrics)

	SessionDuration      time.Duration // Optional: how long an unlock lasts (default: 1h)
	TickInterval         time.Duration // Optional: session re-evaluation tick (default: 1s)
	HousekeepingInterval time.Duration // Optional: housekeeping interval (default: 1h)
	AuditRetention       time.Duration // Optional: how long audit events are kept (default: 30 days)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	BindAddress         string        // Listen address (default: 127.0.0.1, loopback only)
	Port                int           // HTTP server port (default: 8321)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:          getEnvOrDefault("GATE_ISSUER", "taskgate"),
		DatabaseFile:    getEnvOrDefault("GATE_DATABASE_FILE", "taskgate.db"),
		DeviceKeyFile:   getEnvOrDefault("GATE_DEVICE_KEY_FILE", "device.key"),
		BiometricHelper: os.Getenv("GATE_BIOMETRIC_HELPER"), // Optional

		SessionDuration: getEnvDurationOrDefault(
			"GATE_SESSION_DURATION",
			domain.DefaultSessionDuration,
		),
		TickInterval: getEnvDurationOrDefault(
			"GATE_TICK_INTERVAL",
			service.DefaultTickInterval,
		),
		HousekeepingInterval: getEnvDurationOrDefault("GATE_HOUSEKEEPING_INTERVAL", 1*time.Hour),
		AuditRetention:       getEnvDurationOrDefault("GATE_AUDIT_RETENTION", 30*24*time.Hour),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		BindAddress:         getEnvOrDefault("GATE_BIND_ADDRESS", "127.0.0.1"),
		Port:                getEnvIntOrDefault("PORT", 8321),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
