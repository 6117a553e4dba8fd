/*
Package config manages the TOML config for wordchain.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/charmbracelet/log"
)

const appDir = "wordchain"

// Config holds the entire config structure
type Config struct {
	Generate  GenerateConfig  `toml:"generate"`
	Normalize NormalizeConfig `toml:"normalize"`
	Server    ServerConfig    `toml:"server"`
	CLI       CliConfig       `toml:"cli"`
}

// GenerateConfig holds chain generation defaults.
type GenerateConfig struct {
	DefaultMode   string `toml:"default_mode"`
	DefaultLength int    `toml:"default_length"`
	// RandomSeed seeds weighted sampling; 0 seeds from the clock.
	RandomSeed int64 `toml:"random_seed"`
}

// NormalizeConfig selects the token normalization policy.
type NormalizeConfig struct {
	Strip bool `toml:"strip"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxK int `toml:"max_k"`
}

// CliConfig holds interactive mode options.
type CliConfig struct {
	DefaultRank int `toml:"default_rank"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordchain
// 2. ~/Library/Application Support/wordchain (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", appDir)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appDir)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path from GetDefaultConfigPath
// 3. Builtin defaults
//
// The returned path is empty when builtin defaults are in use.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// LookupConfig loads config with the same priority as LoadConfigWithPriority
// but never creates files or directories: the custom path, then
// ~/.config/wordchain/config.toml, then ~/Library/Application Support,
// then builtin defaults. The returned path is empty for builtin defaults.
func LookupConfig(customConfigPath string) (*Config, string, error) {
	var candidates []string
	if customConfigPath != "" {
		candidates = append(candidates, customConfigPath)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(homeDir, ".config", appDir, "config.toml"),
			filepath.Join(homeDir, "Library", "Application Support", appDir, "config.toml"),
		)
	} else {
		log.Debugf("No home directory for config lookup: %v", err)
	}

	for _, path := range candidates {
		if !utils.FileExists(path) {
			if path == customConfigPath {
				log.Warnf("Custom config file not found at %s. Trying default path...", path)
			}
			continue
		}
		config, err := LoadConfig(path)
		if err != nil {
			log.Warnf("Failed to load config from %s: %v", path, err)
			continue
		}
		log.Debugf("Loaded config from: %s", path)
		return config, path, nil
	}
	return DefaultConfig(), "", nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Generate: GenerateConfig{
			DefaultMode:   "one",
			DefaultLength: 12,
			RandomSeed:    0,
		},
		Normalize: NormalizeConfig{
			Strip: true,
		},
		Server: ServerConfig{
			MaxK: 256,
		},
		CLI: CliConfig{
			DefaultRank: 5,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys absent from the file keep their
// defaults, and a file that fails typed decoding is salvaged section by
// section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(raw, "generate"); ok {
		extractGenerateConfig(section, &config.Generate)
	}
	if section, ok := utils.ExtractSection(raw, "normalize"); ok {
		extractNormalizeConfig(section, &config.Normalize)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.sanitize()
	return config, nil
}

func extractGenerateConfig(data map[string]any, gen *GenerateConfig) {
	if val, ok := utils.ExtractString(data, "default_mode"); ok {
		gen.DefaultMode = val
	}
	if val, ok := utils.ExtractInt64(data, "default_length"); ok {
		gen.DefaultLength = val
	}
	if val, ok := utils.ExtractInt64(data, "random_seed"); ok {
		gen.RandomSeed = int64(val)
	}
}

func extractNormalizeConfig(data map[string]any, norm *NormalizeConfig) {
	if val, ok := utils.ExtractBool(data, "strip"); ok {
		norm.Strip = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_k"); ok {
		server.MaxK = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_rank"); ok {
		cli.DefaultRank = val
	}
}

// sanitize replaces out-of-range values with their defaults.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.Generate.DefaultLength < 0 {
		log.Warnf("generate.default_length %d is negative, using %d", c.Generate.DefaultLength, def.Generate.DefaultLength)
		c.Generate.DefaultLength = def.Generate.DefaultLength
	}
	if c.Server.MaxK <= 0 {
		log.Warnf("server.max_k %d must be positive, using %d", c.Server.MaxK, def.Server.MaxK)
		c.Server.MaxK = def.Server.MaxK
	}
	if c.CLI.DefaultRank < 0 {
		log.Warnf("cli.default_rank %d is negative, using %d", c.CLI.DefaultRank, def.CLI.DefaultRank)
		c.CLI.DefaultRank = def.CLI.DefaultRank
	}
}

// RebuildConfigFile force creates a new config.toml at the default path
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
