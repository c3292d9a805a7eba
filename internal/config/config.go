package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects the environment-driven settings. Every field has a default
// so the service runs with no environment at all.
type Config struct {
	ServiceName string
	Env         string
	HTTPAddr    string

	WebhookURL     string
	WebhookTimeout time.Duration

	JobWorkers    int
	JobAttempts   int
	JobRetryDelay time.Duration
	JobBufferSize int
}

func FromEnv() Config {
	return Config{
		ServiceName:    getenvDefault("SERVICE_NAME", "orderd"),
		Env:            getenvDefault("ENV", "dev"),
		HTTPAddr:       getenvDefault("HTTP_ADDR", ":8080"),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		WebhookTimeout: getenvDuration("WEBHOOK_TIMEOUT", 3*time.Second),
		JobWorkers:     getenvInt("JOB_WORKERS", 4),
		JobAttempts:    getenvInt("JOB_ATTEMPTS", 3),
		JobRetryDelay:  getenvDuration("JOB_RETRY_DELAY", 500*time.Millisecond),
		JobBufferSize:  getenvInt("JOB_BUFFER_SIZE", 256),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
