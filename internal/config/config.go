package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/api-sage/wallet-ledger/internal/logger"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=wallet_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultListenAddr = ":8080"
const defaultRedisAddr = "localhost:6379"
const defaultMailFrom = "no-reply@wallet-ledger.local"
const defaultChannelID = "WalletApp"
const defaultChannelKey = "WalletKey001"

type Config struct {
	DatabaseDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	MigrationsDir  string
	ListenAddr     string
	RedisAddr      string
	RedisPassword  string
	MailAPIURL     string
	MailAPIKey     string
	MailFrom       string
	ChannelID      string
	ChannelKey     string
}

func Load() (Config, error) {
	// A missing .env file is fine in production; the process env wins.
	if err := godotenv.Load(); err != nil {
		logger.Info("config no .env file found, relying on process environment", nil)
	}

	return Config{
		DatabaseDSN:    normalizeConnectionString(envOr("DATABASE_DSN", defaultConnectionString)),
		DBMaxOpenConns: envIntOr("DB_MAX_OPEN_CONNS", 30),
		DBMaxIdleConns: envIntOr("DB_MAX_IDLE_CONNS", 20),
		MigrationsDir:  envOr("MIGRATIONS_DIR", "migrations"),
		ListenAddr:     envOr("LISTEN_ADDR", defaultListenAddr),
		RedisAddr:      envOr("REDIS_ADDR", defaultRedisAddr),
		RedisPassword:  strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		MailAPIURL:     strings.TrimSpace(os.Getenv("MAIL_API_URL")),
		MailAPIKey:     strings.TrimSpace(os.Getenv("MAIL_API_KEY")),
		MailFrom:       envOr("MAIL_FROM", defaultMailFrom),
		ChannelID:      envOr("CHANNEL_ID", defaultChannelID),
		ChannelKey:     envOr("CHANNEL_KEY", defaultChannelKey),
	}, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envIntOr(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		logger.Info("config ignoring invalid integer value", logger.Fields{
			"key":   key,
			"value": raw,
		})
		return fallback
	}
	return value
}

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
