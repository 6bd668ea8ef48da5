package browse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	ListingsPath   = "/api/listings"
	DefaultTimeout = 10 * time.Second
)

// Client fetches listings from a listings API.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &fasthttp.Client{
			Name:         "skillswap-browse",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: baseURL,
		timeout: timeout,
	}
}

// Listings does one GET, no retries. tag and excludeOwner are sent as
// query parameters only when set. Any non-2xx status is an error.
func (c *Client) Listings(ctx context.Context, tag, excludeOwner string) ([]RemoteListing, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + ListingsPath)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	args := req.URI().QueryArgs()
	if tag != "" {
		args.Set("tag", tag)
	}
	if excludeOwner != "" {
		args.Set("ownerId_ne", excludeOwner)
	}

	// fasthttp has no context support; honour the context's deadline when
	// it is sooner than ours.
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("failed to load listings: status %d", status)
	}

	var out []RemoteListing
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	if out == nil {
		out = []RemoteListing{}
	}
	return out, nil
}
