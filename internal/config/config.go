package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Probing defaults; command-line flags override these.
	Count        int           // probes per run, 0 = until interrupted
	Wait         time.Duration // pause between probes
	Bytes        int64         // body cap for the GET fallback
	Timeout      time.Duration // per attempt
	MaxRedirects int
	UserAgent    string

	LogDir   string // empty disables the log file
	LogLevel string // debug | info | warn | error

	// serve mode
	Addr           string   // API bind address, e.g. "127.0.0.1:8080"
	AllowedOrigins []string // CORS; empty allows all
	PublicAPIKeys  []string
	AdminAPIKeys   []string
	PublicRPM      int
	PublicBurst    int

	// alerts
	SlackWebhook    string
	AlertWebhook    string // generic JSON webhook
	AlertCooldown   time.Duration
	AlertOnRecovery bool
}

func FromEnv() Config {
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		Count:        intEnv("HTTPING_COUNT", 1, 0),
		Wait:         msEnv("HTTPING_WAIT_MS", time.Second, 1),
		Bytes:        int64(intEnv("HTTPING_BYTES", 4096, 1)),
		Timeout:      msEnv("HTTPING_TIMEOUT_MS", 10*time.Second, 1),
		MaxRedirects: intEnv("HTTPING_MAX_REDIRECTS", 10, 0),
		UserAgent:    os.Getenv("HTTPING_USER_AGENT"),

		LogDir:   os.Getenv("LOG_DIR"),
		LogLevel: logLevel,

		Addr:           addr,
		AllowedOrigins: listEnv("ALLOWED_ORIGINS"),
		PublicAPIKeys:  listEnv("PUBLIC_API_KEYS"),
		AdminAPIKeys:   listEnv("ADMIN_API_KEYS"),
		PublicRPM:      intEnv("PUBLIC_RPM", 120, 0),
		PublicBurst:    intEnv("PUBLIC_BURST", 20, 1),

		SlackWebhook:    os.Getenv("SLACK_WEBHOOK_URL"),
		AlertWebhook:    os.Getenv("ALERT_WEBHOOK_URL"),
		AlertCooldown:   msEnv("ALERT_COOLDOWN_MS", 5*time.Minute, 0),
		AlertOnRecovery: boolEnv("ALERT_ON_RECOVERY", true),
	}
}

// intEnv falls back to def when the variable is unset, malformed or below min.
func intEnv(key string, def, min int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= min {
			return n
		}
	}
	return def
}

func msEnv(key string, def time.Duration, min int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= min {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func boolEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// listEnv splits a comma-separated list, dropping blanks.
func listEnv(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
