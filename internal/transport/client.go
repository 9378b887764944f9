package transport

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls management procedures on a remote Server
type Client struct {
	httpClient connect.HTTPClient
	baseURL    string
	opts       []connect.ClientOption
}

// NewClient creates a Client for the server at baseURL
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		opts:       opts,
	}
}

// Call invokes procedure with req and returns the response as plain values.
// Numbers in the response are float64.
func (c *Client) Call(ctx context.Context, procedure string, req map[string]any) (map[string]any, error) {
	msg, err := c.CallStruct(ctx, procedure, req)
	if err != nil {
		return nil, err
	}
	return msg.AsMap(), nil
}

// CallStruct invokes procedure with req and returns the raw response
func (c *Client) CallStruct(ctx context.Context, procedure string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := connect.NewClient[structpb.Struct, structpb.Struct](c.httpClient, c.baseURL+procedure, c.opts...)
	resp, err := client.CallUnary(ctx, connect.NewRequest(in))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Batch invokes a batch procedure by its short operation name. urls and
// levels are sent only for the paired operations that take them.
func (c *Client) Batch(ctx context.Context, op string, targets []string, urls []string, levels []int64) (map[string]any, error) {
	procedure, ok := BatchProcedure(op)
	if !ok {
		return nil, fmt.Errorf("unknown batch operation %q", op)
	}

	req := map[string]any{}
	switch procedure {
	case InstallBundlesProcedure:
		req[FieldLocations] = anyStrings(targets)
	case InstallBundlesFromURLProcedure:
		req[FieldLocations] = anyStrings(targets)
		req[FieldURLs] = anyStrings(urls)
	default:
		ids, err := parseIDs(targets)
		if err != nil {
			return nil, err
		}
		req[FieldIdentifiers] = ids
		switch procedure {
		case UpdateBundlesFromURLProcedure:
			req[FieldURLs] = anyStrings(urls)
		case SetBundleStartLevelsProcedure:
			lv := make([]any, len(levels))
			for i, l := range levels {
				lv[i] = l
			}
			req[FieldLevels] = lv
		}
	}
	return c.Call(ctx, procedure, req)
}

func anyStrings(xs []string) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func parseIDs(targets []string) ([]any, error) {
	out := make([]any, len(targets))
	for i, t := range targets {
		id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bundle id %q: %w", t, err)
		}
		out[i] = id
	}
	return out, nil
}
