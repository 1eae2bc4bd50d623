// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Store   StoreConfig
	Uploads UploadsConfig
	Auth    AuthConfig
	Import  ImportConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// StoreConfig holds library document storage configuration.
type StoreConfig struct {
	// Backend selects the storage engine: "file" (single JSON document)
	// or "badger" (embedded key-value store).
	Backend string
	// DataPath is the base directory for all persistent state
	// (document, auth key, search index).
	DataPath string
	// DocumentPath is the JSON document location for the file backend
	// (default: {data}/shoebox.json).
	DocumentPath string
	// BadgerPath is the database directory for the badger backend
	// (default: {data}/badger).
	BadgerPath string
}

// UploadsConfig holds photo file storage configuration.
type UploadsConfig struct {
	// Path is the directory uploaded photos are stored in
	// (default: {data}/uploads).
	Path string
	// MaxUploadSize caps multipart upload size in bytes (default: 50MB).
	MaxUploadSize int64
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes).
	// Set by auth.LoadOrGenerateKey in main.
	AccessTokenKey []byte
	// AccessTokenDuration is the access token lifetime (e.g., 24h).
	AccessTokenDuration time.Duration
}

// ImportConfig holds auto-import watcher configuration.
type ImportConfig struct {
	// Enabled turns on the filesystem watcher (default: false).
	Enabled bool
	// WatchPath is the directory watched for new image files.
	WatchPath string
	// UserID is the owner assigned to auto-imported photos (default: 1).
	UserID int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for persistent data")
	serverName := flag.String("server-name", "", "Name for the server")

	// Store flags
	storeBackend := flag.String("store-backend", "", "Storage backend: file or badger (default: file)")
	documentPath := flag.String("document-path", "", "JSON document path for the file backend")
	badgerPath := flag.String("badger-path", "", "Database directory for the badger backend")

	// Uploads flags
	uploadsPath := flag.String("uploads-path", "", "Directory for uploaded photos")
	maxUploadSize := flag.String("max-upload-size", "", "Maximum upload size in bytes (default: 52428800)")

	// Auth flags
	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (e.g., 24h)")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	// Import flags
	importEnabled := flag.String("import-enabled", "", "Enable the auto-import watcher (default: false)")
	importWatchPath := flag.String("import-watch-path", "", "Directory watched for new image files")
	importUserID := flag.String("import-user-id", "", "Owner of auto-imported photos (default: 1)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name: getConfigValue(*serverName, "SERVER_NAME", "Shoebox Server"),
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Store: StoreConfig{
			Backend:      getConfigValue(*storeBackend, "STORE_BACKEND", "file"),
			DataPath:     getConfigValue(*dataPath, "DATA_PATH", ""),
			DocumentPath: getConfigValue(*documentPath, "DOCUMENT_PATH", ""),
			BadgerPath:   getConfigValue(*badgerPath, "BADGER_PATH", ""),
		},
		Uploads: UploadsConfig{
			Path:          getConfigValue(*uploadsPath, "UPLOADS_PATH", ""),
			MaxUploadSize: getInt64ConfigValue(*maxUploadSize, "MAX_UPLOAD_SIZE", 50*1024*1024),
		},
		Auth: AuthConfig{
			AccessTokenKey: nil, // Set by auth.LoadOrGenerateKey in main
		},
		Import: ImportConfig{
			Enabled:   getBoolConfigValue(*importEnabled, "IMPORT_ENABLED", false),
			WatchPath: getConfigValue(*importWatchPath, "IMPORT_WATCH_PATH", ""),
			UserID:    getIntConfigValue(*importUserID, "IMPORT_USER_ID", 1),
		},
	}

	// Parse auth duration.
	accessDurationStr := getConfigValue(*accessTokenDuration, "ACCESS_TOKEN_DURATION", "24h")
	accessDuration, err := time.ParseDuration(accessDurationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid access token duration %q: %w", accessDurationStr, err)
	}
	cfg.Auth.AccessTokenDuration = accessDuration

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Expand paths and apply data-relative defaults.
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("invalid path configuration: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Store.Backend != "file" && c.Store.Backend != "badger" {
		return fmt.Errorf("invalid store backend: %s (must be file or badger)", c.Store.Backend)
	}

	if c.Store.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Uploads.MaxUploadSize <= 0 {
		return errors.New("max upload size must be positive")
	}

	if c.Import.Enabled && c.Import.WatchPath == "" {
		return errors.New("import watch path is required when the import watcher is enabled")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandPaths expands ~ in all configured paths and fills in
// data-relative defaults for anything left unset.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dataPath, err := expandPath(c.Store.DataPath, filepath.Join(homeDir, "Shoebox", "data"))
	if err != nil {
		return err
	}
	c.Store.DataPath = dataPath

	documentPath, err := expandPath(c.Store.DocumentPath, filepath.Join(dataPath, "shoebox.json"))
	if err != nil {
		return err
	}
	c.Store.DocumentPath = documentPath

	badgerPath, err := expandPath(c.Store.BadgerPath, filepath.Join(dataPath, "badger"))
	if err != nil {
		return err
	}
	c.Store.BadgerPath = badgerPath

	uploadsPath, err := expandPath(c.Uploads.Path, filepath.Join(dataPath, "uploads"))
	if err != nil {
		return err
	}
	c.Uploads.Path = uploadsPath

	if c.Import.WatchPath != "" {
		watchPath, err := expandPath(c.Import.WatchPath, "")
		if err != nil {
			return err
		}
		c.Import.WatchPath = watchPath
	}

	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getInt64ConfigValue returns an int64 from flag, env var, or default.
func getInt64ConfigValue(flagValue, envKey string, defaultValue int64) int64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int64
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
