package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cilens-dev/cilens/internal/token"
	"github.com/cilens-dev/cilens/pkg/cierrors"
)

func TestNewClientRejectsInvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("not a url", token.New("x"))
	if err == nil {
		t.Fatal("expected an error for an unparsable base URL")
	}
	var cfgErr *cierrors.ConfigError
	if !asConfigError(err, &cfgErr) {
		t.Errorf("expected a ConfigError, got %T: %v", err, err)
	}
}

func asConfigError(err error, target **cierrors.ConfigError) bool {
	ce, ok := err.(*cierrors.ConfigError)
	if ok {
		*target = ce
	}
	return ok
}

func TestClientQueryTranslatesHTTPErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("unauthorized"))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, token.New("bad-token"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	var out struct{}
	err = client.query(context.Background(), "query { x }", nil, &out)
	if err == nil {
		t.Fatal("expected an error for a 401 response")
	}
	apiErr, ok := err.(*cierrors.APIError)
	if !ok {
		t.Fatalf("expected an APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusUnauthorized)
	}
}

func TestClientQueryTranslatesGraphQLErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]string{{"message": "field not found"}},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, token.New("t"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	var out struct{}
	err = client.query(context.Background(), "query { x }", nil, &out)
	if err == nil || !strings.Contains(err.Error(), "field not found") {
		t.Fatalf("expected a GraphQL-error message, got %v", err)
	}
}

func TestClientQuerySendsBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, token.New("secret-value"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	var out map[string]any
	if err := client.query(context.Background(), "query { x }", nil, &out); err != nil {
		t.Fatalf("query: %v", err)
	}
	if gotAuth != "Bearer secret-value" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer secret-value")
	}
}

func TestFetchPipelinesByStatusPaginates(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var nodes []map[string]any
		hasNext := calls == 1
		if calls == 1 {
			nodes = []map[string]any{{"id": "gid://gitlab/Ci::Pipeline/1", "ref": "main", "source": "push", "status": "SUCCESS", "duration": 1.0, "stages": map[string]any{"nodes": []map[string]any{}}}}
		} else {
			nodes = []map[string]any{{"id": "gid://gitlab/Ci::Pipeline/2", "ref": "main", "source": "push", "status": "SUCCESS", "duration": 1.0, "stages": map[string]any{"nodes": []map[string]any{}}}}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"project": map[string]any{
					"pipelines": map[string]any{
						"pageInfo": map[string]any{"hasNextPage": hasNext, "endCursor": "cursor-2"},
						"nodes":    nodes,
					},
				},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, token.New("t"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	pipelines, err := client.fetchPipelinesByStatus(context.Background(), "group/project", "", "SUCCESS", 10)
	if err != nil {
		t.Fatalf("fetchPipelinesByStatus: %v", err)
	}
	if len(pipelines) != 2 {
		t.Fatalf("expected 2 pipelines across 2 pages, got %d", len(pipelines))
	}
	if calls != 2 {
		t.Errorf("expected 2 HTTP calls, got %d", calls)
	}
}
