package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cilens-dev/cilens/internal/token"
	"github.com/cilens-dev/cilens/pkg/cierrors"
)

const userAgent = "CILens/0.1.0"

// pageSize is GitLab's cursor-pagination page cap used by both query
// loops (spec §4.1).
const pageSize = 50

// Client talks to one GitLab instance's GraphQL API (spec §4.1). It
// holds no mutable state beyond the underlying *http.Client's own
// connection pool, so it is safe to share read-only across concurrent
// fetches (spec §5).
type Client struct {
	httpClient *http.Client
	graphqlURL string
	token      token.Token
}

// NewClient builds a Client against baseURL's /api/graphql endpoint.
func NewClient(baseURL string, tok token.Token) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, cierrors.NewConfigError("invalid base URL", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, cierrors.NewConfigError(fmt.Sprintf("invalid base URL %q", baseURL), nil)
	}

	graphqlURL := strings.TrimRight(parsed.String(), "/") + "/api/graphql"

	return &Client{
		httpClient: &http.Client{},
		graphqlURL: graphqlURL,
		token:      tok,
	}, nil
}

type graphqlRequest struct {
	Query     string `json:"query"`
	Variables any    `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// query posts a GraphQL document to the instance and decodes the data
// payload into out, translating transport and GraphQL-level failures
// into the CI Lens error taxonomy (spec §7).
func (c *Client) query(ctx context.Context, document string, variables any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: document, Variables: variables})
	if err != nil {
		return cierrors.NewJSONError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return cierrors.NewConfigError("failed to build GraphQL request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if !c.token.IsZero() {
		req.Header.Set("Authorization", "Bearer "+c.token.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cierrors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return cierrors.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := string(respBody)
		if len(excerpt) > 500 {
			excerpt = excerpt[:500]
		}
		return cierrors.NewAPIError(resp.StatusCode, excerpt)
	}

	envelope := graphqlResponse[json.RawMessage]{}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return cierrors.NewConfigError("failed to decode GraphQL response", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return cierrors.NewConfigError("GraphQL errors: "+strings.Join(messages, ", "), nil)
	}

	if len(envelope.Data) == 0 {
		return cierrors.NewConfigError("GraphQL response contained no data", nil)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return cierrors.NewConfigError("failed to decode GraphQL data", err)
	}

	return nil
}
