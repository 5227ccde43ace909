package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Store  StoreConfig
	Export ExportConfig
}

type ServerConfig struct {
	Addr string
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Required.
	JWTSecret string
	// HardTimeoutMinutes bounds the lifetime of every issued token.
	HardTimeoutMinutes int
	// PasswordKey seals user passwords at rest. Required, 32 bytes
	// after base64 decoding.
	PasswordKey string
	// BypassTokens are builtin service-account tokens that map straight
	// to the admin role without touching the session store.
	BypassTokens []string
}

type StoreConfig struct {
	UserDBDir    string
	ProjectDBDir string
}

type ExportConfig struct {
	ScratchDir string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr: getenv("LISTEN_ADDR", ":8080"),
		},
		Auth: AuthConfig{
			JWTSecret:          os.Getenv("JWT_SECRET"),
			HardTimeoutMinutes: getenvInt("TOKEN_HARD_TIMEOUT_MIN", 720),
			PasswordKey:        os.Getenv("PASSWORD_KEY"),
			BypassTokens:       splitList(os.Getenv("BYPASS_TOKENS")),
		},
		Store: StoreConfig{
			UserDBDir:    getenv("USER_DB_DIR", "./data/userdb"),
			ProjectDBDir: getenv("PROJECT_DB_DIR", "./data/projectdb"),
		},
		Export: ExportConfig{
			ScratchDir: getenv("EXPORT_SCRATCH_DIR", "./data/export-scratch"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
