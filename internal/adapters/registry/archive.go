package registry

import (
	"context"
	"fmt"
	"net/http"

	perr "progdex/internal/platform/errors"
)

// branchGuesses is the fallback probe order when the authoritative
// default-branch lookup itself fails
var branchGuesses = []string{"main", "master", "dev", "develop"}

// ArchiveURL builds the zip download URL for a repository's default branch.
// The declared default branch is looked up first; the guess list is probed
// only when that lookup fails, never before it
func (c *Client) ArchiveURL(ctx context.Context, owner, repo string) (string, error) {
	branch, err := c.DefaultBranch(ctx, owner, repo)
	if err == nil && branch != "" {
		return c.archiveFor(owner, repo, branch), nil
	}
	if perr.IsCode(err, perr.ErrorCodeNotFound) || perr.IsCode(err, perr.ErrorCodeForbidden) {
		// the repository itself is gone or closed; guessing cannot help
		return "", err
	}
	c.log.Warn().Err(err).Str("repo", owner+"/"+repo).Msg("default branch lookup failed, probing guesses")

	for _, guess := range branchGuesses {
		u := c.archiveFor(owner, repo, guess)
		ok, probeErr := c.probeArchive(ctx, u)
		if probeErr != nil || !ok {
			continue
		}
		return u, nil
	}
	return "", perr.Unavailablef("no archive branch resolved for %s/%s", owner, repo)
}

func (c *Client) archiveFor(owner, repo, branch string) string {
	return fmt.Sprintf("%s/%s/%s/archive/refs/heads/%s.zip", c.opts.ArchiveBaseURL, owner, repo, branch)
}

// probeArchive issues a HEAD against the archive host; redirects to the
// codeload backend count as existing
func (c *Client) probeArchive(ctx context.Context, u string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	_ = drainAndClose(resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 400, nil
}
