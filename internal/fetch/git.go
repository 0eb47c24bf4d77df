// Package fetch downloads theme packages from git remotes.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrInvalidSlug is returned for repository slugs that are not owner/repo.
var ErrInvalidSlug = errors.New("invalid repository slug")

// Client runs git to fetch theme repositories.
type Client struct {
	git     string
	baseURL string
	logger  *slog.Logger

	// Progress receives git's stderr during clone when set.
	Progress io.Writer
}

// NewClient creates a Client. Empty git defaults to "git".
func NewClient(git, baseURL string, logger *slog.Logger) *Client {
	if git == "" {
		git = "git"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{git: git, baseURL: baseURL, logger: logger}
}

// ParseSlug validates an owner/repo slug and returns the repository name.
func ParseSlug(slug string) (string, error) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	parts := strings.Split(slug, "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w %q: expected owner/repo", ErrInvalidSlug, slug)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return "", fmt.Errorf("%w %q", ErrInvalidSlug, slug)
		}
	}
	name := strings.TrimSuffix(parts[len(parts)-1], ".git")
	if name == "" {
		return "", fmt.Errorf("%w %q", ErrInvalidSlug, slug)
	}
	return name, nil
}

// URL joins the base URL and slug.
func (c *Client) URL(slug string) string {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if c.baseURL == "" || strings.HasSuffix(c.baseURL, "/") {
		return c.baseURL + slug
	}
	return c.baseURL + "/" + slug
}

// Clone replaces dest with a fresh clone of url.
func (c *Client) Clone(ctx context.Context, url, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("remove %s: %w", dest, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
	}

	args := []string{"clone"}
	if c.Progress != nil {
		args = append(args, "--progress")
	} else {
		args = append(args, "--quiet")
	}
	args = append(args, url, dest)

	c.logger.Debug("cloning", "url", url, "dest", dest)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.git, args...)
	if c.Progress != nil {
		cmd.Stderr = io.MultiWriter(c.Progress, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("git clone %s: %w: %s", url, err, lastLine(msg))
		}
		return fmt.Errorf("git clone %s: %w", url, err)
	}
	return nil
}

// HeadTreeContains reports whether the HEAD commit of repo tracks relPath.
func (c *Client) HeadTreeContains(ctx context.Context, repo, relPath string) (bool, error) {
	cmd := exec.CommandContext(ctx, c.git, "-C", repo, "cat-file", "-e", "HEAD:"+filepath.ToSlash(relPath))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		c.logger.Debug("path not in HEAD tree", "repo", repo, "path", relPath,
			"stderr", strings.TrimSpace(stderr.String()))
		return false, nil
	}
	return false, fmt.Errorf("git cat-file: %w", err)
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
