package qumulo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetRaw issues a GET for pattern formatted with args and returns the body
// as sent by the cluster.
func (c *Client) GetRaw(ctx context.Context, pattern string, args ...any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.getJSON(ctx, &out, pattern, args...); err != nil {
		return nil, fmt.Errorf("get %s: %w", pattern, err)
	}
	return out, nil
}

// ListRaw returns the items under key from every page of a paged list
// endpoint, following paging.next.
func (c *Client) ListRaw(ctx context.Context, key, pattern string, args ...any) ([]json.RawMessage, error) {
	var page map[string]json.RawMessage
	if err := c.getJSON(ctx, &page, pattern, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", pattern, err)
	}

	var all []json.RawMessage
	for n := 1; ; n++ {
		if items := page[key]; len(items) > 0 {
			var batch []json.RawMessage
			if err := json.Unmarshal(items, &batch); err != nil {
				return nil, fmt.Errorf("list %s page %d: %q is not a list: %w", pattern, n, key, err)
			}
			all = append(all, batch...)
		}

		var paging Paging
		if p, ok := page["paging"]; ok {
			if err := json.Unmarshal(p, &paging); err != nil {
				return nil, fmt.Errorf("list %s page %d: %w", pattern, n, err)
			}
		}
		if paging.Next == "" || n >= maxPages {
			break
		}

		page = nil
		if err := c.do(ctx, http.MethodGet, pattern, paging.Next, nil, &page); err != nil {
			return nil, fmt.Errorf("list %s page %d: %w", pattern, n+1, err)
		}
	}
	return all, nil
}
