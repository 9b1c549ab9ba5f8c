package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/CTAG07/Vellum/pkg/templating"
	"github.com/natefinch/atomic"
)

// ServerConfig holds the configuration for the preview server.
type ServerConfig struct {
	ServerAddr   string `json:"server_addr"`
	LogLevel     string `json:"log_level"`
	DataDir      string `json:"data_dir"`
	DatabasePath string `json:"database_path"`
	SettingsPath string `json:"settings_path"`

	// DatasetPath is a YAML or JSON dataset file. DatasetQuery, when set,
	// takes precedence and is run against the database instead.
	DatasetPath  string              `json:"dataset_path"`
	DatasetQuery string              `json:"dataset_query"`
	Viewport     templating.Viewport `json:"viewport"`
	Palette      []string            `json:"palette"`
	Headers      map[string]string   `json:"headers"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server    *ServerConfig              `json:"server_config"`
	Templates *templating.TemplateConfig `json:"template_config"`
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ServerAddr:   ":7280",
		LogLevel:     "info",
		DataDir:      "./data",
		DatabasePath: "./data/vellum.db?_journal_mode=WAL&_busy_timeout=5000",
		SettingsPath: "./data/settings.json",
		DatasetPath:  "./data/dataset.yaml",
		DatasetQuery: "",
		Viewport:     templating.Viewport{Width: 800, Height: 600},
		Palette:      defaultPalette(),
		Headers: map[string]string{
			"Cache-Control":           "no-store",
			"Content-Security-Policy": "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline';",
			"Content-Type":            "text/html; charset=utf-8",
		},
	}
}

// DefaultTemplateConfig is the engine default with Markdown rendering on,
// since the preview shows templates as Markdown documents.
func DefaultTemplateConfig() *templating.TemplateConfig {
	templates := templating.DefaultConfig()
	templates.Markdown = true
	return &templates
}

func defaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Templates: DefaultTemplateConfig(),
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := defaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The server can still run with defaults.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Server == nil {
		config.Server = DefaultServerConfig()
	}
	if config.Templates == nil {
		config.Templates = DefaultTemplateConfig()
	}
	return config, nil
}

// ConfigManager handles thread-safe access to the configuration and pushes
// template settings to the engines.
type ConfigManager struct {
	config     *Config
	mu         sync.RWMutex
	configPath string
	logger     *slog.Logger
	engines    []*templating.Engine
}

// NewConfigManager loads the config and initializes the manager.
func NewConfigManager(path string) (*ConfigManager, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &ConfigManager{
		config:     cfg,
		configPath: path,
		// Log to stdout before the application-specific logger is set.
		logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})),
	}, nil
}

// AddEngine registers a template engine to receive config updates and
// applies the current template config to it.
func (cm *ConfigManager) AddEngine(engine *templating.Engine) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if err := engine.SetConfig(*cm.config.Templates); err != nil {
		return err
	}
	cm.engines = append(cm.engines, engine)
	return nil
}

func (cm *ConfigManager) SetLogger(logger *slog.Logger) {
	cm.logger = logger
}

// Get returns a thread-safe copy of the current configuration.
func (cm *ConfigManager) Get() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	server := *cm.config.Server
	templates := *cm.config.Templates
	return Config{Server: &server, Templates: &templates}
}

// Update validates and applies the configuration, then saves it to disk.
func (cm *ConfigManager) Update(newConfig Config) error {
	if newConfig.Server == nil || newConfig.Templates == nil {
		return fmt.Errorf("configuration is missing server_config or template_config")
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	for _, engine := range cm.engines {
		if err := engine.SetConfig(*newConfig.Templates); err != nil {
			return fmt.Errorf("template configuration rejected: %w", err)
		}
	}

	*cm.config = newConfig

	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = atomic.WriteFile(cm.configPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	cm.logger.Info("Configuration updated", "path", cm.configPath)
	return nil
}
