package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// SearchCap is the hosting API's hard ceiling on retrievable search hits;
// paging past it returns validation errors, so harvesters stop there
const SearchCap = 1000

// SearchRepos runs one page of repository search. query is the raw search
// expression including any qualifiers (stars:, language:); page is 1-based
func (c *Client) SearchRepos(ctx context.Context, query string, page, perPage int) (SearchResult, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	if page <= 0 {
		page = 1
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("sort", "stars")
	q.Set("order", "desc")
	path := "/search/repositories?" + q.Encode()

	resp, err := c.Do(ctx, http.MethodGet, path, "")
	if err != nil {
		return SearchResult{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("registry close body failed")
		}
	}()

	var out SearchResult
	if err := readJSON(resp.Body, 4<<20, &out); err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

// readJSON decodes a capped response body
func readJSON(r io.Reader, limit int64, out any) error {
	b, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
