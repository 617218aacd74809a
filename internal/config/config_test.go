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
package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/zalando/go-keyring"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig(viper.New(), "")
	assert.NoError(t, err)
	assert.Equal(t, "claude-agent", cfg.AgentBinary)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.YOLO)
}

func TestLoadConfigEnvOverridesDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WIRETERM_AGENT_BINARY", "custom-agent")
	t.Setenv("WIRETERM_YOLO", "true")

	cfg, err := LoadConfig(viper.New(), "")
	assert.NoError(t, err)
	assert.Equal(t, "custom-agent", cfg.AgentBinary)
	assert.True(t, cfg.YOLO)
}

func TestLoadConfigMissingExplicitFileErrors(t *testing.T) {
	_, err := LoadConfig(viper.New(), "/no/such/wireterm.yaml")
	assert.Error(t, err)
}

func TestValidateRejectsEmptyAgentBinary(t *testing.T) {
	cfg := &Config{AgentBinary: "", LogLevel: "info"}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := &Config{AgentBinary: "claude-agent", LogLevel: "verbose"}
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := &Config{AgentBinary: "claude-agent", LogLevel: "debug"}
	assert.NoError(t, cfg.Validate())
}

func TestAgentAPIKeyKeyringRoundTrip(t *testing.T) {
	keyring.MockInit()

	secret, err := AgentAPIKeyFromKeyring()
	assert.NoError(t, err)
	assert.Equal(t, "", secret)

	assert.NoError(t, SaveAgentAPIKeyToKeyring("sk-test-123"))

	secret, err = AgentAPIKeyFromKeyring()
	assert.NoError(t, err)
	assert.Equal(t, "sk-test-123", secret)

	assert.NoError(t, DeleteAgentAPIKeyFromKeyring())

	secret, err = AgentAPIKeyFromKeyring()
	assert.NoError(t, err)
	assert.Equal(t, "", secret)
}

func TestDeleteAgentAPIKeyFromKeyringIsIdempotent(t *testing.T) {
	keyring.MockInit()

	assert.NoError(t, DeleteAgentAPIKeyFromKeyring())
	assert.NoError(t, DeleteAgentAPIKeyFromKeyring())
}
