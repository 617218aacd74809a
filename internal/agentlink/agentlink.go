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

// Package agentlink owns the agent subprocess: it starts the binary, writes
// outbound command envelopes to its stdin, and pumps its stdout line by
// line onto the event bus as they arrive. Every outbound call is
// fire-and-forget — callers never block on a reply; whatever the agent
// sends back arrives later as an ordinary bus event, keyed by the session
// id it names.
package agentlink

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wireterm/wireterm/internal/eventbus"
	"github.com/wireterm/wireterm/internal/wire"
)

// Config configures the agent subprocess.
type Config struct {
	Binary string
	Args   []string
	Dir    string
	Env    map[string]string
	Logger *zap.Logger
	Bus    *eventbus.Bus
}

// Link is a running agent subprocess connection.
type Link struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	logger *zap.Logger
	bus    *eventbus.Bus

	mu     sync.Mutex
	closed bool
}

// Start launches the agent binary and begins pumping its stdout/stderr in
// background goroutines. The returned Link is ready for Send immediately.
func Start(cfg Config) (*Link, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// #nosec G204 -- the agent binary is an operator-configured trusted executable, not user input.
	cmd := exec.Command(cfg.Binary, cfg.Args...)
	if cfg.Dir != "" {
		cmd.Dir = cfg.Dir
	}
	cmd.Env = os.Environ()
	for k, v := range cfg.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("agentlink: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("agentlink: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return nil, fmt.Errorf("agentlink: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		stderr.Close()
		return nil, fmt.Errorf("agentlink: start %s: %w", cfg.Binary, err)
	}

	l := &Link{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: logger,
		bus:    cfg.Bus,
	}

	logger.Info("agent started", zap.String("binary", cfg.Binary), zap.Int("pid", cmd.Process.Pid))

	go l.pumpStdout()
	go l.pumpStderr()

	return l, nil
}

// pumpStdout reads one JSON line at a time and publishes each as an agent
// bus event; a line that fails to parse is logged and dropped rather than
// tearing down the link, since one malformed line shouldn't lose the rest
// of the session.
func (l *Link) pumpStdout() {
	reader := bufio.NewReaderSize(l.stdout, 64*1024)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			if ev, perr := wire.Parse(trimEOL(line)); perr != nil {
				l.logger.Warn("agentlink: malformed event line", zap.Error(perr))
			} else if l.bus != nil {
				l.bus.Publish(eventbus.Event{Source: eventbus.SourceAgent, Agent: &ev})
			}
		}
		if err != nil {
			if err != io.EOF && l.bus != nil {
				l.bus.Publish(eventbus.Event{Source: eventbus.SourceAgent, Err: fmt.Errorf("agentlink: stdout closed: %w", err)})
			}
			return
		}
	}
}

func trimEOL(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

// pumpStderr forwards each stderr line to the structured logger, prefixed
// by its SDK-reported severity verb when one is present (e.g. "[sdk warn]
// retrying connection"), falling back to Info otherwise.
func (l *Link) pumpStderr() {
	reader := bufio.NewReaderSize(l.stderr, 64*1024)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			l.logStderrLine(string(trimEOL(line)))
		}
		if err != nil {
			return
		}
	}
}

func (l *Link) logStderrLine(line string) {
	verb, rest, ok := parseSDKPrefix(line)
	if !ok {
		l.logger.Info(line, zap.String("source", "agent-stderr"))
		return
	}
	switch strings.ToLower(verb) {
	case "error", "fatal":
		l.logger.Error(rest, zap.String("source", "agent-stderr"))
	case "warn", "warning":
		l.logger.Warn(rest, zap.String("source", "agent-stderr"))
	case "debug":
		l.logger.Debug(rest, zap.String("source", "agent-stderr"))
	default:
		l.logger.Info(rest, zap.String("source", "agent-stderr"))
	}
}

// parseSDKPrefix recognizes a "[sdk <verb>] message" stderr line.
func parseSDKPrefix(line string) (verb, rest string, ok bool) {
	const prefix = "[sdk "
	if !strings.HasPrefix(line, prefix) {
		return "", "", false
	}
	closeIdx := strings.Index(line, "]")
	if closeIdx < 0 {
		return "", "", false
	}
	verb = line[len(prefix):closeIdx]
	rest = strings.TrimSpace(line[closeIdx+1:])
	return verb, rest, true
}

// Send serializes cmd and writes it (plus a trailing newline) to the
// subprocess's stdin. Fire-and-forget: the call returns once the bytes are
// written, not once the agent has acted on them.
func (l *Link) Send(cmd wire.CommandEnvelope) error {
	data, err := wire.Encode(cmd)
	if err != nil {
		return fmt.Errorf("agentlink: encode command: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return fmt.Errorf("agentlink: link closed")
	}
	if _, err := l.stdin.Write(data); err != nil {
		return fmt.Errorf("agentlink: write command: %w", err)
	}
	if _, err := l.stdin.Write([]byte("\n")); err != nil {
		return fmt.Errorf("agentlink: write newline: %w", err)
	}
	return nil
}

// Shutdown sends a shutdown command, closes stdin, and waits for the
// process to exit, killing it if it doesn't within ctx's deadline.
func (l *Link) Shutdown(ctx context.Context) error {
	_ = l.Send(wire.NewShutdown(""))

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.stdin.Close()
	l.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- l.cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		_ = l.cmd.Process.Kill()
		<-done
		return ctx.Err()
	}
}
