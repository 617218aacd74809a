// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads wireterm's configuration: flags override environment
// variables (WIRETERM_ prefix) override a config file override built-in
// defaults, following the same viper precedence chain as the rest of the
// ecosystem's CLIs.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const keyringService = "wireterm"

// Config is wireterm's full runtime configuration surface.
type Config struct {
	// AgentBinary is the executable launched as the agent subprocess.
	AgentBinary string `mapstructure:"agent_binary"`
	// AgentArgs are extra arguments appended after AgentBinary.
	AgentArgs []string `mapstructure:"agent_args"`
	// WorkingDir is the cwd handed to the agent on initialize/new_session.
	WorkingDir string `mapstructure:"working_dir"`
	// Model, if set, is sent as the initial model on session creation.
	Model string `mapstructure:"model"`
	// ResumeSessionID, if set, causes a load_session instead of new_session.
	ResumeSessionID string `mapstructure:"resume_session_id"`
	// YOLO auto-approves every permission request instead of prompting.
	YOLO bool `mapstructure:"yolo"`
	// DisableUpdateCheck skips the startup update-check probe entirely.
	DisableUpdateCheck bool `mapstructure:"disable_update_check"`
	// LogLevel gates the structured logger (debug|info|warn|error).
	LogLevel string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("agent_binary", "claude-agent")
	v.SetDefault("agent_args", []string{})
	v.SetDefault("working_dir", ".")
	v.SetDefault("model", "")
	v.SetDefault("resume_session_id", "")
	v.SetDefault("yolo", false)
	v.SetDefault("disable_update_check", false)
	v.SetDefault("log_level", "info")
}

// LoadConfig builds the configuration from, in increasing priority: built-in
// defaults, an optional config file (cfgFile, or ./config.yaml /
// ~/.wireterm/config.yaml if empty), WIRETERM_-prefixed environment
// variables, and any flags already bound into v by the caller (cobra binds
// flags into the same viper instance before calling LoadConfig).
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.wireterm")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			return nil, fmt.Errorf("config: read %s: %w", cfgFile, err)
		}
	}

	v.SetEnvPrefix("WIRETERM")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// AgentAPIKeySecret is the keyring account name under which an agent
// credential (e.g. an Anthropic API key the agent subprocess itself reads
// from its own environment) may be stored, so the user need not keep it in
// plaintext config or shell history.
const AgentAPIKeySecret = "agent-api-key"

// AgentAPIKeyFromKeyring looks up a previously saved agent credential.
// Returns ("", nil) if nothing is stored.
func AgentAPIKeyFromKeyring() (string, error) {
	secret, err := keyring.Get(keyringService, AgentAPIKeySecret)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("config: keyring lookup: %w", err)
	}
	return secret, nil
}

// SaveAgentAPIKeyToKeyring persists an agent credential to the OS keyring.
func SaveAgentAPIKeyToKeyring(secret string) error {
	if err := keyring.Set(keyringService, AgentAPIKeySecret, secret); err != nil {
		return fmt.Errorf("config: keyring save: %w", err)
	}
	return nil
}

// DeleteAgentAPIKeyFromKeyring removes a stored agent credential, if any.
func DeleteAgentAPIKeyFromKeyring() error {
	if err := keyring.Delete(keyringService, AgentAPIKeySecret); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("config: keyring delete: %w", err)
	}
	return nil
}

// Validate reports the first configuration error found, if any.
func (c *Config) Validate() error {
	if c.AgentBinary == "" {
		return errors.New("config: agent_binary must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return nil
}
