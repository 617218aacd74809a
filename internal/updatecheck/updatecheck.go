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

// Package updatecheck implements the fire-and-forget release probe: once
// per process start, at most once per 24h per the cache file's timestamp,
// it asks a releases endpoint for the latest tagged version and reports
// back over the event bus if it's newer than the running build.
package updatecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wireterm/wireterm/internal/eventbus"
	"github.com/wireterm/wireterm/internal/home"
	"github.com/wireterm/wireterm/internal/wire"
)

const (
	disableEnv     = "WIRETERM_NO_UPDATE_CHECK"
	ttl            = 24 * time.Hour
	probeTimeout   = 4 * time.Second
	cacheFile      = "update-check.json"
	releasesURL    = "https://api.github.com/repos/wireterm/wireterm/tags"
)

type cacheEntry struct {
	CheckedAtUnixSecs int64  `json:"checked_at_unix_secs"`
	LatestVersion     string `json:"latest_version"`
}

// Disabled reports whether the probe should be skipped: --disable-update-check
// flag, or the WIRETERM_NO_UPDATE_CHECK env var set to a truthy value.
func Disabled(flag bool) bool {
	if flag {
		return true
	}
	v := strings.ToLower(strings.TrimSpace(os.Getenv(disableEnv)))
	return v == "1" || v == "true" || v == "yes"
}

// Start launches the probe in a background goroutine. It never blocks the
// caller and never panics; any failure is logged at debug and swallowed.
func Start(currentVersion string, bus *eventbus.Bus, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	go func() {
		latest, err := resolveLatestVersion(logger)
		if err != nil {
			logger.Debug("update check skipped", zap.Error(err))
			return
		}
		if isNewerVersion(latest, currentVersion) && bus != nil {
			bus.Publish(eventbus.Event{
				Source: eventbus.SourceInternal,
				Agent: &wire.EventEnvelope{
					Event:         wire.EvUpdateAvailable,
					LatestVersion: latest,
				},
			})
		}
	}()
}

func resolveLatestVersion(logger *zap.Logger) (string, error) {
	path, err := cachePath()
	if err != nil {
		return "", err
	}
	now := time.Now().Unix()

	cached, cachedOK := readCache(path)
	if cachedOK && now-cached.CheckedAtUnixSecs <= int64(ttl.Seconds()) && isValidVersion(cached.LatestVersion) {
		return cached.LatestVersion, nil
	}

	latest, err := fetchLatestTag()
	if err != nil {
		if cachedOK && isValidVersion(cached.LatestVersion) {
			return cached.LatestVersion, nil
		}
		return "", err
	}

	entry := cacheEntry{CheckedAtUnixSecs: now, LatestVersion: latest}
	if err := writeCache(path, entry); err != nil {
		logger.Debug("update-check cache write failed", zap.Error(err))
	}
	return latest, nil
}

func cachePath() (string, error) {
	dir, err := home.CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cacheFile), nil
}

func readCache(path string) (cacheEntry, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheEntry{}, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return cacheEntry{}, false
	}
	return entry, true
}

func writeCache(path string, entry cacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// fetchLatestTag queries the releases endpoint for the highest semantic tag.
func fetchLatestTag() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("updatecheck: unexpected status %d", resp.StatusCode)
	}

	var tags []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return "", err
	}

	var versions []simpleVersion
	for _, t := range tags {
		if v, ok := parseSimpleVersion(t.Name); ok {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("updatecheck: no parseable tags")
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].less(versions[j]) })
	best := versions[len(versions)-1]
	return fmt.Sprintf("%d.%d.%d", best.major, best.minor, best.patch), nil
}

type simpleVersion struct {
	major, minor, patch int
}

func (v simpleVersion) less(o simpleVersion) bool {
	if v.major != o.major {
		return v.major < o.major
	}
	if v.minor != o.minor {
		return v.minor < o.minor
	}
	return v.patch < o.patch
}

// parseSimpleVersion accepts "v1.2.3" or "1.2.3", with an optional
// "-prerelease" suffix discarded, and rejects anything else.
func parseSimpleVersion(raw string) (simpleVersion, bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "v")
	if idx := strings.IndexByte(trimmed, '-'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	parts := strings.Split(trimmed, ".")
	if len(parts) != 3 {
		return simpleVersion{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return simpleVersion{}, false
		}
		nums[i] = n
	}
	return simpleVersion{major: nums[0], minor: nums[1], patch: nums[2]}, true
}

func isValidVersion(raw string) bool {
	_, ok := parseSimpleVersion(raw)
	return ok
}

func isNewerVersion(candidate, current string) bool {
	c, ok := parseSimpleVersion(candidate)
	if !ok {
		return false
	}
	cur, ok := parseSimpleVersion(current)
	if !ok {
		return false
	}
	return cur.less(c)
}
