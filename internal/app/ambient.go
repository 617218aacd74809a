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
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/wireterm/wireterm/internal/focus"
)

// RefreshGitBranch shells out to git to recheck the current branch for
// Session.Cwd. Run calls it from its own gitBranchInterval ticker, not
// every frame tick — git plumbing is a blocking external collaborator, so
// the scheduler pays for it far less often than it renders. Any
// failure (not a repo, git missing, detached-HEAD weirdness) leaves the
// cached branch untouched rather than clearing it.
func (e *Engine) RefreshGitBranch(ctx context.Context) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = e.Session.Cwd
	out, err := cmd.Output()
	if err != nil {
		e.logger.Debug("git branch refresh skipped", zap.Error(err))
		return
	}
	branch := strings.TrimSpace(string(out))
	if branch != "" && branch != e.Session.GitBranch {
		e.Session.GitBranch = branch
	}
}

// ToggleHelp flips the help overlay, claiming or releasing the Help focus
// target so it participates in the same owner-stack as every other popup.
func (e *Engine) ToggleHelp() {
	e.HelpVisible = !e.HelpVisible
	if e.HelpVisible {
		e.Focus.Claim(focus.Help, e.focusContext())
	} else {
		e.Focus.Release(focus.Help, e.focusContext())
	}
}
