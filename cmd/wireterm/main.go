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
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wireterm/wireterm/internal/app"
	"github.com/wireterm/wireterm/internal/config"
	"github.com/wireterm/wireterm/internal/eventbus"
	"github.com/wireterm/wireterm/internal/log"
	"github.com/wireterm/wireterm/internal/tui"
	"github.com/wireterm/wireterm/internal/updatecheck"
	"github.com/wireterm/wireterm/internal/version"
)

var (
	cfgFile            string
	agentBinary        string
	workingDir         string
	model              string
	resumeSessionID    string
	yolo               bool
	disableUpdateCheck bool
	logLevel           string
)

var rootCmd = &cobra.Command{
	Use:     "wireterm",
	Short:   "wireterm — a terminal front-end for a coding-assistant agent",
	Long:    "wireterm drives an external coding-assistant agent over the Agent-Client-Protocol: it streams the agent's replies, mediates tool-permission prompts, and forwards edits and cancellations back to it.",
	Version: version.Get(),
	RunE:    run,
}

func init() {
	v := viper.New()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or ~/.wireterm/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&agentBinary, "agent", "", "agent binary to launch (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&workingDir, "cwd", "C", "", "working directory handed to the agent (defaults to the current directory)")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "model to request on session creation")
	rootCmd.PersistentFlags().StringVar(&resumeSessionID, "resume", "", "resume an existing session id instead of creating a new one")
	rootCmd.PersistentFlags().BoolVar(&yolo, "yolo", false, "auto-approve every permission request instead of prompting")
	rootCmd.PersistentFlags().BoolVar(&disableUpdateCheck, "disable-update-check", false, "skip the startup update-check probe")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "structured log level: debug|info|warn|error")

	_ = v.BindPFlag("agent_binary", rootCmd.PersistentFlags().Lookup("agent"))
	_ = v.BindPFlag("working_dir", rootCmd.PersistentFlags().Lookup("cwd"))
	_ = v.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	_ = v.BindPFlag("resume_session_id", rootCmd.PersistentFlags().Lookup("resume"))
	_ = v.BindPFlag("yolo", rootCmd.PersistentFlags().Lookup("yolo"))
	_ = v.BindPFlag("disable_update_check", rootCmd.PersistentFlags().Lookup("disable-update-check"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.SetContext(context.WithValue(context.Background(), viperKey{}, v))
}

type viperKey struct{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	v, _ := cmd.Context().Value(viperKey{}).(*viper.Viper)
	if v == nil {
		v = viper.New()
	}
	cfg, err := config.LoadConfig(v, cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	wd := cfg.WorkingDir
	if wd == "" || wd == "." {
		if cur, err := os.Getwd(); err == nil {
			wd = cur
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New(256)
	if !updatecheck.Disabled(cfg.DisableUpdateCheck) {
		// Shares the session bus: its event tag (update_available) is
		// harmless noise to Connect's handshake wait below, which consumes
		// and drops it if it lands during the handshake; one that lands
		// later reaches the engine as an ordinary agent event once Run starts.
		updatecheck.Start(version.Get(), bus, logger)
	}

	link, sess, history, err := app.Connect(ctx, app.ConnectOptions{
		AgentBinary: cfg.AgentBinary,
		AgentArgs:   cfg.AgentArgs,
		WorkingDir:  wd,
		Model:       cfg.Model,
		Resume:      cfg.ResumeSessionID,
		YOLO:        cfg.YOLO,
		Logger:      logger,
		Bus:         bus,
	})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	engine := app.New(app.Config{Link: link, Bus: bus, Logger: logger}, sess)
	engine.ReplayHistory(history)

	return tui.Run(ctx, engine, logger)
}
