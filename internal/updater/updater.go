// Package updater checks GitHub releases for newer builds. It only
// announces updates; installation stays a manual step for the operator.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Release is the subset of the GitHub release payload we read.
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// UpdateInfo describes an available newer release.
type UpdateInfo struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseNotes   string
	URL            string
}

// Checker polls the release feed on an interval and reports through the
// logger when a newer version appears.
type Checker struct {
	version  string
	apiURL   string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger

	mu      sync.Mutex
	stop    chan struct{}
	started bool
}

// NewChecker builds a checker for the given repository URL, for example
// https://github.com/owner/repo.
func NewChecker(version, repoURL string, interval time.Duration, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	apiURL := strings.Replace(repoURL, "github.com", "api.github.com/repos", 1)
	apiURL = strings.TrimSuffix(apiURL, ".git") + "/releases/latest"

	return &Checker{
		version:  version,
		apiURL:   apiURL,
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger.With(slog.String("component", "updater")),
	}
}

// CheckLatest fetches the latest release. A nil UpdateInfo with a nil
// error means the running build is current.
func (c *Checker) CheckLatest(ctx context.Context) (*UpdateInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("failed to parse release: %w", err)
	}

	if release.TagName == "" || release.TagName == c.version {
		return nil, nil
	}
	return &UpdateInfo{
		CurrentVersion: c.version,
		LatestVersion:  release.TagName,
		ReleaseNotes:   release.Name,
		URL:            release.HTMLURL,
	}, nil
}

// Start begins periodic checks in a background goroutine.
func (c *Checker) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	c.stop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.checkOnce()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				c.checkOnce()
			}
		}
	}()
}

// Stop ends periodic checks.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	c.started = false
	close(c.stop)
}

func (c *Checker) checkOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	info, err := c.CheckLatest(ctx)
	if err != nil {
		c.logger.Debug("update check failed", slog.String("error", err.Error()))
		return
	}
	if info != nil {
		c.logger.Info("newer release available",
			slog.String("current", info.CurrentVersion),
			slog.String("latest", info.LatestVersion),
			slog.String("url", info.URL))
	}
}
