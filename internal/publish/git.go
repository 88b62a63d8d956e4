package publish

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/antagata/campaign-winners/pkg/logger"
)

// Publisher pushes the rendered site to the configured git remote.
// It shells out to the git binary; the push is bounded by the timeout.
type Publisher struct {
	dir     string // repository working directory (the output dir)
	remote  string
	branch  string
	timeout time.Duration
	logger  *logger.Logger
}

// New creates a publisher for the given working directory.
func New(dir, remote, branch string, timeout time.Duration, log *logger.Logger) *Publisher {
	return &Publisher{
		dir:     dir,
		remote:  remote,
		branch:  branch,
		timeout: timeout,
		logger:  log,
	}
}

// Publish stages the dashboard artifacts, commits, and pushes. A clean
// working tree is a no-op, not an error.
func (p *Publisher) Publish(ctx context.Context, now time.Time) error {
	status, err := p.git(ctx, "status", "--short")
	if err != nil {
		return fmt.Errorf("git status: %w", err)
	}
	if strings.TrimSpace(status) == "" {
		p.logger.Info("No dashboard changes to publish")
		return nil
	}

	if _, err := p.git(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	message := CommitMessage(now)
	if out, err := p.git(ctx, "commit", "-m", message); err != nil {
		if strings.Contains(strings.ToLower(out), "nothing to commit") {
			p.logger.Info("Nothing to commit")
			return nil
		}
		return fmt.Errorf("git commit: %w", err)
	}

	pushCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if _, err := p.git(pushCtx, "push", p.remote, p.branch); err != nil {
		return fmt.Errorf("git push %s %s: %w", p.remote, p.branch, err)
	}

	p.logger.WithFields(map[string]interface{}{
		"remote": p.remote,
		"branch": p.branch,
	}).Info("Dashboard published")

	return nil
}

// CommitMessage builds the timestamped publish commit message.
func CommitMessage(now time.Time) string {
	return fmt.Sprintf("Update dashboard with latest data - %s", now.Format("January 2, 2006 at 15:04:05"))
}

// git runs one git command in the publisher's working directory and
// returns its combined output.
func (p *Publisher) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
