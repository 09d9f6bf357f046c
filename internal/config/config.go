package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        int
	NatsURL     string
	NatsToken   string
	DatabaseURL string
	RedisURL    string
	LogLevel    string

	// STATE_BACKEND: "postgres" (default) or "redis".
	StateBackend string
	// THROTTLE_SCOPE: "global" (default) or "conversation".
	ThrottleScope string
	StateTTL      time.Duration

	ClaimantName    string
	MonitoredGroups []string
	Keywords        []string
	Delimiter       string
	SlotMarkers     []string
	MinInterval     time.Duration
	ReplyDelay      time.Duration

	ScheduleFile string
	DryRun       bool
	Enabled      bool
}

func Load() Config {
	return Config{
		Port:        envInt("RESPONDER_PORT", 8760),
		NatsURL:     envStr("NATS_URL", "nats://localhost:4222"),
		NatsToken:   envStr("NATS_TOKEN", ""),
		DatabaseURL: envStr("DATABASE_URL", ""),
		RedisURL:    envStr("REDIS_URL", "redis://localhost:6379/0"),
		LogLevel:    envStr("LOG_LEVEL", "info"),

		StateBackend:  envStr("STATE_BACKEND", "postgres"),
		ThrottleScope: envStr("THROTTLE_SCOPE", "global"),
		StateTTL:      envDuration("STATE_TTL", 0),

		ClaimantName:    envStr("CLAIMANT_NAME", ""),
		MonitoredGroups: envList("MONITORED_GROUPS", nil),
		Keywords:        envList("REQUIRED_KEYWORDS", nil),
		Delimiter:       envStr("BLOCK_DELIMITER", ""),
		SlotMarkers:     envList("SLOT_MARKERS", nil),
		MinInterval:     envDuration("MIN_REPLY_INTERVAL", 0),
		ReplyDelay:      envDuration("REPLY_DELAY", 0),

		ScheduleFile: envStr("SCHEDULE_FILE", ""),
		DryRun:       envBool("DRY_RUN", false),
		Enabled:      envBool("RESPONDER_ENABLED", true),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
