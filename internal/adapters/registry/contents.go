package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	perr "progdex/internal/platform/errors"
)

// ListDir lists one directory via the contents API. A missing path is not an
// error; absent priority directories are an expected scan outcome, so 404
// yields an empty listing. A path naming a single file yields one entry
func (c *Client) ListDir(ctx context.Context, owner, repo, path string) ([]Entry, error) {
	p := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path)
	resp, err := c.Do(ctx, http.MethodGet, p, "")
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", p).Msg("registry close body failed")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	// a directory is a JSON array, a file is a bare object
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var out []Entry
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var one Entry
	if err := json.Unmarshal(b, &one); err != nil {
		return nil, err
	}
	return []Entry{one}, nil
}

// RawFile downloads a file's raw content from its absolute download URL,
// capped at 1 MB
func (c *Client) RawFile(ctx context.Context, downloadURL string) ([]byte, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, url: downloadURL, accept: "*/*"})
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("url", downloadURL).Msg("registry close body failed")
		}
	}()
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// Readme fetches the repository README as raw markdown
func (c *Client) Readme(ctx context.Context, owner, repo string) ([]byte, error) {
	p := fmt.Sprintf("/repos/%s/%s/readme", owner, repo)
	resp, err := c.do(ctx, request{method: http.MethodGet, url: c.opts.BaseURL + p, accept: acceptRaw})
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", p).Msg("registry close body failed")
		}
	}()
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
