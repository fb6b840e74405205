package registry

import (
	"context"
	"fmt"
	"net/http"
)

// RepoByFullName fetches a repository document with optional etag.
// notModified is true on a 304, in which case the zero Repo is returned
func (c *Client) RepoByFullName(ctx context.Context, owner, name, etag string) (Repo, string, bool, error) {
	path := fmt.Sprintf("/repos/%s/%s", owner, name)
	resp, err := c.Do(ctx, http.MethodGet, path, etag)
	if err != nil {
		return Repo{}, "", false, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("registry close body failed")
		}
	}()

	if resp.StatusCode == http.StatusNotModified {
		return Repo{}, resp.Header.Get("ETag"), true, nil
	}

	var out Repo
	if err := readJSON(resp.Body, 1<<20, &out); err != nil {
		return Repo{}, "", false, err
	}
	return out, resp.Header.Get("ETag"), false, nil
}

// DefaultBranch looks up the repository's declared default branch
func (c *Client) DefaultBranch(ctx context.Context, owner, name string) (string, error) {
	r, _, _, err := c.RepoByFullName(ctx, owner, name, "")
	if err != nil {
		return "", err
	}
	return r.DefaultBranch, nil
}
