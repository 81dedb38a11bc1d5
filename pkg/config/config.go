package config

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	DocsPath   = "./docs"
	ListenAddr = ":8080"

	// Site chrome
	SiteTitle       = "Documentation Site"
	SiteDescription = "Generated from MD/MDX files"

	TemplatesDir = "templates"
	StaticDir    = "static"

	// Session settings
	SessionName   = "docsite"
	SessionSecret = ""

	LogLevel  = "info"
	LogFormat = "text"
)

func Init() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	DocsPath = getEnv("DOCS_PATH", "./docs")
	ListenAddr = getEnv("LISTEN_ADDR", ":8080")

	SiteTitle = getEnv("SITE_TITLE", "Documentation Site")
	SiteDescription = getEnv("SITE_DESCRIPTION", "Generated from MD/MDX files")

	TemplatesDir = getEnv("TEMPLATES_DIR", "templates")
	StaticDir = getEnv("STATIC_DIR", "static")

	SessionName = getEnv("SESSION_NAME", "docsite")
	SessionSecret = os.Getenv("SESSION_SECRET")

	LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "text"))
}

// SessionKey returns the cookie signing key. Without SESSION_SECRET a random
// key is generated, so sidebar state does not survive restarts.
func SessionKey() []byte {
	if SessionSecret != "" {
		return []byte(SessionSecret)
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	slog.Warn("SESSION_SECRET not set, using an ephemeral key")
	SessionSecret = hex.EncodeToString(buf)
	return []byte(SessionSecret)
}

// Level maps LOG_LEVEL to a slog level.
func Level() slog.Level {
	switch LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
