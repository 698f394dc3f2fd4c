package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// DataSource selects where reference data is read from at startup.
type DataSource string

const (
	SourceEmbedded DataSource = "embedded"
	SourceFile     DataSource = "file"
	SourceSQLite   DataSource = "sqlite"
	SourcePostgres DataSource = "postgres"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DataSource   DataSource
	DataBasePath string // for file
	DataFile     string // key under DataBasePath

	DBDSN  string
	DBSeed bool // write the embedded dataset into the DB before loading

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	LogLevel  string
	LogPretty bool
}

// FromEnv reads configuration from the environment, after loading a .env
// file from the working directory when one exists.
func FromEnv() Config {
	_ = godotenv.Load()

	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		// offline installs expose dataset staging without auth
		addr = "127.0.0.1:8080"
		if mode == ModeOnline {
			addr = ":8080"
		}
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		DataSource:         DataSource(envOr("DATA_SOURCE", string(SourceEmbedded))),
		DataBasePath:       envOr("DATA_BASE_PATH", "./data"),
		DataFile:           envOr("DATA_FILE", "merit.json"),
		DBDSN:              envOr("DB_DSN", ""),
		DBSeed:             envBool("DB_SEED", false),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://merit.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		LogPretty:          envBool("LOG_PRETTY", mode == ModeOffline),
	}
}

// CORSOrigins returns the allowed origins for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
