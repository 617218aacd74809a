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
package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerDefaultsToInputWithoutClaims(t *testing.T) {
	var mgr Manager
	ctx := Context{}
	assert.Equal(t, OwnerInput, mgr.Owner(ctx))
}

func TestLatestValidClaimWins(t *testing.T) {
	var mgr Manager
	ctx := Context{TodoFocusAvailable: true, MentionActive: true, PermissionActive: true}
	mgr.Claim(TodoList, ctx)
	mgr.Claim(Permission, ctx)
	mgr.Claim(Mention, ctx)
	assert.Equal(t, OwnerMention, mgr.Owner(ctx))
}

func TestInvalidClaimsAreNormalizedOut(t *testing.T) {
	var mgr Manager
	validCtx := Context{TodoFocusAvailable: true}
	invalidCtx := Context{}
	mgr.Claim(TodoList, validCtx)
	assert.Equal(t, OwnerTodoList, mgr.Owner(validCtx))
	mgr.Normalize(invalidCtx)
	assert.Equal(t, OwnerInput, mgr.Owner(invalidCtx))
}

func TestHelpFocusTargetWorksWhenEnabled(t *testing.T) {
	var mgr Manager
	ctx := Context{HelpActive: true}
	mgr.Claim(Help, ctx)
	assert.Equal(t, OwnerHelp, mgr.Owner(ctx))
}

func TestReclaimMovesToTopRatherThanDuplicating(t *testing.T) {
	var mgr Manager
	ctx := Context{TodoFocusAvailable: true, MentionActive: true}
	mgr.Claim(TodoList, ctx)
	mgr.Claim(Mention, ctx)
	mgr.Claim(TodoList, ctx) // re-claim, should move to top
	assert.Equal(t, OwnerTodoList, mgr.Owner(ctx))
}

func TestReleaseDropsClaimAndFallsBackToNextValid(t *testing.T) {
	var mgr Manager
	ctx := Context{TodoFocusAvailable: true, MentionActive: true}
	mgr.Claim(TodoList, ctx)
	mgr.Claim(Mention, ctx)
	mgr.Release(Mention, ctx)
	assert.Equal(t, OwnerTodoList, mgr.Owner(ctx))
}
