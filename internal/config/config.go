package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure. It names the
// action root, the logical external paths the actions depend on, and viewer
// settings.
type Config struct {
	Title   string `yaml:"title"` // Viewer window title
	Actions struct {
		Root   string   `yaml:"root"`   // Folder tree scanned for actions
		Ignore []string `yaml:"ignore"` // Glob patterns excluded from the scan
	} `yaml:"actions"`
	Paths struct {
		Required map[string]string `yaml:"required"` // Logical name -> absolute path, validated at startup
		Fallback struct {
			Marker string   `yaml:"marker"` // Directory whose presence identifies a fallback root
			Roots  []string `yaml:"roots"`  // Candidate roots probed when a required path is unreachable
		} `yaml:"fallback"`
	} `yaml:"paths"`
	Settings struct {
		Debug   bool   `yaml:"debug"`   // Enable debug logging
		LogFile string `yaml:"log_file"` // Log destination while the viewer owns the terminal
		Support string `yaml:"support"` // Who to contact when startup validation fails
	} `yaml:"settings"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// LoadConfig loads configuration from the default location
// (~/.config/launchpad/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "launchpad", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Start with default configuration
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Title != "" {
		cfg.Title = tempCfg.Title
	}
	if tempCfg.Actions.Root != "" {
		cfg.Actions.Root = tempCfg.Actions.Root
	}
	if len(tempCfg.Actions.Ignore) > 0 {
		cfg.Actions.Ignore = tempCfg.Actions.Ignore
	}
	if len(tempCfg.Paths.Required) > 0 {
		cfg.Paths.Required = tempCfg.Paths.Required
	}
	if tempCfg.Paths.Fallback.Marker != "" {
		cfg.Paths.Fallback.Marker = tempCfg.Paths.Fallback.Marker
	}
	if len(tempCfg.Paths.Fallback.Roots) > 0 {
		cfg.Paths.Fallback.Roots = tempCfg.Paths.Fallback.Roots
	}
	cfg.Settings.Debug = tempCfg.Settings.Debug
	if tempCfg.Settings.LogFile != "" {
		cfg.Settings.LogFile = tempCfg.Settings.LogFile
	}
	if tempCfg.Settings.Support != "" {
		cfg.Settings.Support = tempCfg.Settings.Support
	}
	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Title = "Launchpad"
	cfg.Actions.Root = "actions"
	cfg.Actions.Ignore = []string{}
	cfg.Paths.Required = map[string]string{}
	cfg.Settings.LogFile = defaultLogFile()
	cfg.ApplyTheme("default")

	return cfg
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "launchpad.log"
	}
	return filepath.Join(home, ".config", "launchpad", "launchpad.log")
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Actions.Root == "" {
		return fmt.Errorf("actions root is required")
	}

	for name, path := range c.Paths.Required {
		if name == "" {
			return fmt.Errorf("required path: logical name cannot be empty")
		}
		if path == "" {
			return fmt.Errorf("required path %s: path cannot be empty", name)
		}
	}

	if len(c.Paths.Fallback.Roots) > 0 && c.Paths.Fallback.Marker == "" {
		return fmt.Errorf("fallback roots configured without a marker directory")
	}

	return nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105", // Dark Blue
			"success":  "78",  // Dark Green
			"warning":  "214", // Dark Yellow
			"error":    "160", // Dark Red
			"info":     "33",  // Dark Blue
			"emphasis": "147", // Light Blue
			"border":   "105", // Dark Blue
		},
		"light": {
			"primary":  "135", // Light Purple
			"success":  "150", // Light Green
			"warning":  "222", // Light Yellow
			"error":    "210", // Light Red
			"info":     "117", // Light Blue
			"emphasis": "219", // Very Light Pink
			"border":   "135", // Light Purple
		},
		"monochrome": {
			"primary":  "245", // Light Grey
			"success":  "252", // White
			"warning":  "241", // Medium Grey
			"error":    "232", // Black
			"info":     "248", // Grey
			"emphasis": "255", // Bright White
			"border":   "245", // Light Grey
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
// It updates the theme colors based on the theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
