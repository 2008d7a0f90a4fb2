package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all configuration settings for the application.
type Config struct {
	// Server settings
	ListenAddress string
	ListenPort    string

	// Storage layout. UploadsDir, ShoppingListFile and CalendarFile default
	// to locations inside BaseDir but can each be pointed elsewhere.
	BaseDir          string
	UploadsDir       string
	ShoppingListFile string
	CalendarFile     string

	// Request activity log (plain text, append-only).
	LogFile string

	// Upload limits
	MaxUploadBytes int64
}

const (
	defaultAddress        = "0.0.0.0"
	defaultPort           = "8080"
	defaultBaseDir        = "./web" // Relative to working dir
	defaultLogFile        = "./server.log"
	defaultMaxUploadBytes = 1 << 30 // 1 GiB

	uploadsDirName       = "uploads"
	shoppingListFileName = "shopping_list.json"
	calendarFileName     = "calendar.json"
)

// LoadConfig loads configuration from defaults, environment variables, and
// command-line flags. Command-line flags take precedence over environment
// variables, which take precedence over defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	// Use LANHUB_ prefix for environment variables to align with testing and avoid conflicts
	flag.StringVar(&cfg.ListenAddress, "address", getEnv("LANHUB_LISTEN_ADDRESS", defaultAddress), "Server listen address (Env: LANHUB_LISTEN_ADDRESS)")
	flag.StringVar(&cfg.ListenPort, "port", defaultPort, "Server listen port (Env: LANHUB_LISTEN_PORT)")
	flag.StringVar(&cfg.BaseDir, "base-dir", getEnv("LANHUB_BASE_DIR", defaultBaseDir), "Web root and data directory (Env: LANHUB_BASE_DIR)")
	flag.StringVar(&cfg.UploadsDir, "uploads-dir", getEnv("LANHUB_UPLOADS_DIR", ""), "Uploads directory; defaults to <base-dir>/uploads (Env: LANHUB_UPLOADS_DIR)")
	flag.StringVar(&cfg.ShoppingListFile, "shopping-file", getEnv("LANHUB_SHOPPING_FILE", ""), "Shopping list JSON file; defaults to <base-dir>/shopping_list.json (Env: LANHUB_SHOPPING_FILE)")
	flag.StringVar(&cfg.CalendarFile, "calendar-file", getEnv("LANHUB_CALENDAR_FILE", ""), "Calendar JSON file; defaults to <base-dir>/calendar.json (Env: LANHUB_CALENDAR_FILE)")
	flag.StringVar(&cfg.LogFile, "log-file", getEnv("LANHUB_LOG_FILE", defaultLogFile), "Request activity log file (Env: LANHUB_LOG_FILE)")
	maxUploadStr := flag.String("max-upload-bytes", getEnv("LANHUB_MAX_UPLOAD_BYTES", strconv.FormatInt(defaultMaxUploadBytes, 10)), "Maximum declared upload size in bytes (Env: LANHUB_MAX_UPLOAD_BYTES)")

	// Parse flags to override defaults and env vars
	flag.Parse()

	// --- Post-Flag Parsing Adjustments ---
	// Port uses the env var only when the flag was left at its default.
	envPort := getEnv("LANHUB_LISTEN_PORT", "")
	if cfg.ListenPort == defaultPort && envPort != "" {
		cfg.ListenPort = envPort
	}

	var err error
	cfg.MaxUploadBytes, err = strconv.ParseInt(*maxUploadStr, 10, 64)
	if err != nil || cfg.MaxUploadBytes <= 0 {
		log.Printf("WARN: Invalid max-upload-bytes value '%s'. Using default %d.", *maxUploadStr, int64(defaultMaxUploadBytes))
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	// --- Path Resolution ---
	cfg.BaseDir, err = filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("could not determine absolute path for base-dir '%s': %w", cfg.BaseDir, err)
	}

	if cfg.UploadsDir == "" {
		cfg.UploadsDir = filepath.Join(cfg.BaseDir, uploadsDirName)
	}
	if cfg.ShoppingListFile == "" {
		cfg.ShoppingListFile = filepath.Join(cfg.BaseDir, shoppingListFileName)
	}
	if cfg.CalendarFile == "" {
		cfg.CalendarFile = filepath.Join(cfg.BaseDir, calendarFileName)
	}
	for _, p := range []*string{&cfg.UploadsDir, &cfg.ShoppingListFile, &cfg.CalendarFile, &cfg.LogFile} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return nil, fmt.Errorf("could not determine absolute path for '%s': %w", *p, err)
		}
		*p = abs
	}

	// Collection paths must not point at existing directories; the files
	// themselves are created lazily on first write.
	for _, p := range []string{cfg.ShoppingListFile, cfg.CalendarFile} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return nil, fmt.Errorf("collection path '%s' points to a directory, not a file", p)
		}
	}

	logConfiguration(cfg)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// logConfiguration prints the loaded configuration settings.
func logConfiguration(cfg *Config) {
	log.Println("--- Configuration ---")
	log.Printf("Server Address: %s", cfg.ListenAddress)
	log.Printf("Server Port: %s", cfg.ListenPort)
	log.Printf("Base Directory: %s", cfg.BaseDir)
	log.Printf("Uploads Directory: %s", cfg.UploadsDir)
	log.Printf("Shopping List File: %s", cfg.ShoppingListFile)
	log.Printf("Calendar File: %s", cfg.CalendarFile)
	log.Printf("Log File: %s", cfg.LogFile)
	log.Printf("Max Upload Bytes: %d", cfg.MaxUploadBytes)
	log.Println("---------------------")
}
