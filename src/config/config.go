package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultHotkey       = "Ctrl+Alt+G"
	DefaultSettingsFile = "cursor-guide.yaml"
	SettingsFileEnvVar  = "SETTINGS_FILE"
	// AltEnvVar names a .env file used when none sits next to the executable.
	AltEnvVar = "CURSOR_GUIDE"

	defaultRefreshHz   = 60
	defaultDisplayPoll = 2 * time.Second
)

type LoadOptions struct {
	SettingsFileOverride string
	HotkeyOverride       string
}

type Config struct {
	EnableFileLogging bool
	LogLevel          string
	Hotkey            string
	SettingsFile      string
	FullAccess        bool
	RefreshHz         int
	DisplayPoll       time.Duration
	StartVisible      bool
}

// RefreshInterval returns the display refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return time.Second / time.Duration(c.RefreshHz)
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use CURSOR_GUIDE env var as a path to a config file
	envPath := resolveEnvPath()
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	hotkey := getEnvWithDefault("HOTKEY", DefaultHotkey)
	if o := strings.TrimSpace(opts.HotkeyOverride); o != "" {
		hotkey = o
	}

	refreshHz := getEnvInt("REFRESH_HZ", defaultRefreshHz)
	if refreshHz > 500 {
		refreshHz = 500
	}

	poll := defaultDisplayPoll
	if ms := getEnvInt("DISPLAY_POLL_MS", 0); ms > 0 {
		poll = time.Duration(ms) * time.Millisecond
	}

	cfg := &Config{
		EnableFileLogging: getEnvBool("ENABLE_FILE_LOGGING", false),
		LogLevel:          strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		Hotkey:            hotkey,
		SettingsFile:      resolveSettingsFile(opts),
		FullAccess:        getEnvBool("FULL_ACCESS", true),
		RefreshHz:         refreshHz,
		DisplayPoll:       poll,
		StartVisible:      getEnvBool("START_VISIBLE", true),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	if execDir := executableDir(); execDir != "" {
		exeEnv := filepath.Join(execDir, ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(AltEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func executableDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(execPath)
}

// resolveSettingsFile picks the override, then SETTINGS_FILE, then the
// default name. Relative paths are taken from the executable directory.
func resolveSettingsFile(opts LoadOptions) string {
	path := getEnvWithDefault(SettingsFileEnvVar, DefaultSettingsFile)
	if o := strings.TrimSpace(opts.SettingsFileOverride); o != "" {
		path = o
	}
	if filepath.IsAbs(path) {
		return path
	}
	if dir := executableDir(); dir != "" {
		return filepath.Join(dir, path)
	}
	return path
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
