package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=priya_bank_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultRedisAddr = "localhost:6379"
const defaultListenAddr = ":8080"
const defaultBankIFSC = "PRIYA0510"
const defaultSessionTTL = 24 * time.Hour

type Config struct {
	DatabaseDSN   string
	MigrationsDir string
	RedisAddr     string
	ListenAddr    string
	JWTSecret     string
	SessionTTL    time.Duration
	BankIFSC      string
}

func Load() (Config, error) {
	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if redisAddr == "" {
		redisAddr = defaultRedisAddr
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	bankIFSC := strings.TrimSpace(os.Getenv("BANK_IFSC"))
	if bankIFSC == "" {
		bankIFSC = defaultBankIFSC
	}

	sessionTTL := defaultSessionTTL
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
		}
		sessionTTL = parsed
	}

	migrationsDir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	return Config{
		DatabaseDSN:   normalizeConnectionString(conn),
		MigrationsDir: migrationsDir,
		RedisAddr:     redisAddr,
		ListenAddr:    listenAddr,
		JWTSecret:     jwtSecret,
		SessionTTL:    sessionTTL,
		BankIFSC:      bankIFSC,
	}, nil
}

// normalizeConnectionString accepts either a libpq keyword DSN or the
// semicolon-separated form used by the provisioning scripts and rewrites the
// latter into libpq keywords.
func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
