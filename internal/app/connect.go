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

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wireterm/wireterm/internal/agentlink"
	"github.com/wireterm/wireterm/internal/eventbus"
	"github.com/wireterm/wireterm/internal/session"
	"github.com/wireterm/wireterm/internal/wire"
)

// ConnectOptions carries the handshake parameters a bootstrap needs before
// the frame scheduler can start: where the agent binary lives, what
// directory it should treat as cwd, and the session the user asked for.
type ConnectOptions struct {
	AgentBinary string
	AgentArgs   []string
	WorkingDir  string
	Model       string
	Resume      string // non-empty selects load_session over new_session
	YOLO        bool
	Logger      *zap.Logger
	Bus         *eventbus.Bus

	// HandshakeTimeout bounds how long Connect waits for the agent to
	// answer initialize/create_session/load_session before giving up.
	HandshakeTimeout time.Duration
}

// Connect spawns the agent subprocess, performs the initialize + (new or
// resumed) session handshake synchronously, and returns a Link, a Session
// ready to hand to an Engine, and any history updates a resumed session
// replayed (apply these via Engine.ReplayHistory once the Engine exists —
// Connect runs before the frame scheduler's select loop, so it reads the
// bus directly rather than through it, and must not touch session state
// through the scheduler's own transition functions).
func Connect(ctx context.Context, opts ConnectOptions) (*agentlink.Link, *session.Session, []wire.SessionUpdate, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.HandshakeTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	link, err := agentlink.Start(agentlink.Config{
		Binary: opts.AgentBinary,
		Args:   opts.AgentArgs,
		Dir:    opts.WorkingDir,
		Logger: logger,
		Bus:    opts.Bus,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("app: start agent: %w", err)
	}

	hctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	initReq := uuid.NewString()
	if err := link.Send(wire.NewInitialize(initReq, opts.WorkingDir, nil)); err != nil {
		return nil, nil, nil, fmt.Errorf("app: send initialize: %w", err)
	}
	if err := awaitEvent(hctx, opts.Bus, func(ev wire.EventEnvelope) bool {
		return ev.Event == wire.EvInitialized || ev.Event == wire.EvConnected || ev.Event == wire.EvConnectionFailed
	}); err != nil {
		return nil, nil, nil, fmt.Errorf("app: waiting for initialize: %w", err)
	}

	sessReq := uuid.NewString()
	if opts.Resume != "" {
		err = link.Send(wire.NewLoadSession(sessReq, opts.Resume, nil))
	} else {
		err = link.Send(wire.NewCreateSession(sessReq, opts.WorkingDir, opts.YOLO, opts.Model, opts.Resume, nil))
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("app: send session handshake: %w", err)
	}

	var sessionID, cwd string
	var mode wire.ModeState
	var history []wire.SessionUpdate
	err = awaitEvent(hctx, opts.Bus, func(ev wire.EventEnvelope) bool {
		if ev.Event == wire.EvConnectionFailed || ev.Event == wire.EvAuthRequired {
			return true
		}
		if ev.SessionID == "" {
			return false
		}
		sessionID = ev.SessionID
		if ev.Cwd != "" {
			cwd = ev.Cwd
		}
		if ev.Mode != nil {
			mode = *ev.Mode
		}
		history = ev.HistoryUpdates
		return true
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("app: waiting for session: %w", err)
	}
	if sessionID == "" {
		return nil, nil, nil, fmt.Errorf("app: agent did not grant a session (auth required or connection failed)")
	}
	if cwd == "" {
		cwd = opts.WorkingDir
	}

	sess := session.New(sessionID, cwd)
	sess.Model = opts.Model
	sess.Mode = mode
	sess.Status = session.StatusReady

	return link, sess, history, nil
}

// awaitEvent blocks until an agent event matching pred arrives on bus, or
// ctx is cancelled. Non-matching events and other sources are dropped —
// this is only ever used during the pre-scheduler handshake window, before
// anything else is consuming the bus. pred may capture fields from the
// matched event into the caller's locals as a side effect.
func awaitEvent(ctx context.Context, bus *eventbus.Bus, pred func(wire.EventEnvelope) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-bus.AgentEvents():
			if ev.Err != nil {
				return ev.Err
			}
			if ev.Source == eventbus.SourceAgent && ev.Agent != nil && pred(*ev.Agent) {
				return nil
			}
		}
	}
}
