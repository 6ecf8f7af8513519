package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flemzord/zilliz-mcp/internal/cloud"
	"github.com/flemzord/zilliz-mcp/internal/config"
	"github.com/flemzord/zilliz-mcp/internal/vectordb"
	"github.com/flemzord/zilliz-mcp/internal/zilliz"
)

// newTestServer wires a Server against a fake upstream that answers every
// request with the given envelope data.
func newTestServer(t *testing.T, data string, seen *[]*http.Request) *Server {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = append(*seen, r.Clone(context.Background()))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":` + data + `}`))
	}))
	t.Cleanup(upstream.Close)

	client := zilliz.New(upstream.URL, "test-token", 5*time.Second,
		zilliz.WithHTTPClient(upstream.Client()),
		zilliz.WithEndpointTemplate(upstream.URL))

	return New(
		config.ServerConfig{Host: "localhost", Port: 0},
		"test",
		cloud.NewService(client, "gcp-us-west1", nil),
		vectordb.NewService(client, "gcp-us-west1", nil),
		nil,
		nil,
	)
}

func callReq(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content is %T, want text", res.Content[0])
	}
	return text.Text
}

func TestHandleListProjects(t *testing.T) {
	s := newTestServer(t, `[{"projectName":"Default","projectId":"proj-1","instanceCount":1}]`, nil)

	res, err := s.handleListProjects(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var projects []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &projects); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(projects) != 1 || projects[0]["project_id"] != "proj-1" {
		t.Errorf("projects = %v", projects)
	}
}

func TestHandleDescribeCluster_MissingArgument(t *testing.T) {
	s := newTestServer(t, `{}`, nil)

	res, err := s.handleDescribeCluster(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing cluster_id")
	}
}

func TestHandleCreateFreeCluster(t *testing.T) {
	var seen []*http.Request
	s := newTestServer(t, `{"clusterId":"in03-new","username":"db_admin","prompt":"ready soon"}`, &seen)

	res, err := s.handleCreateFreeCluster(context.Background(), callReq(map[string]any{
		"cluster_name": "demo",
		"project_id":   "proj-1",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if len(seen) != 1 || seen[0].URL.Path != "/v2/clusters/createFree" {
		t.Errorf("requests = %v", seen)
	}
	if !strings.Contains(resultText(t, res), "in03-new") {
		t.Errorf("result = %s", resultText(t, res))
	}
}

func TestHandleQueryClusterMetrics(t *testing.T) {
	var seen []*http.Request
	s := newTestServer(t, `{"results":[]}`, &seen)

	res, err := s.handleQueryClusterMetrics(context.Background(), callReq(map[string]any{
		"cluster_id":     "in01-abc",
		"start":          "2024-01-01T00:00:00Z",
		"end":            "2024-01-02T00:00:00Z",
		"granularity":    "PT1M",
		"metric_queries": []any{map[string]any{"name": "CU_COMPUTATION"}},
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if len(seen) != 1 || seen[0].URL.Path != "/v2/clusters/in01-abc/metrics/query" {
		t.Errorf("requests = %v", seen)
	}
}

func TestHandleSearch_PassesThroughUpstreamPayload(t *testing.T) {
	raw := `[[{"id":1,"distance":0.12,"title":"a"}]]`
	s := newTestServer(t, raw, nil)

	res, err := s.handleSearch(context.Background(), callReq(map[string]any{
		"cluster_id":      "in01-abc",
		"collection_name": "books",
		"data":            []any{[]any{0.1, 0.2}},
		"limit":           float64(5),
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != raw {
		t.Errorf("result = %s, want upstream payload untouched", got)
	}
}

func TestHandleCreateCollection_AutoIDExplicitFalse(t *testing.T) {
	var seen []*http.Request
	s := newTestServer(t, `{}`, &seen)

	res, err := s.handleCreateCollection(context.Background(), callReq(map[string]any{
		"cluster_id":      "in01-abc",
		"collection_name": "books",
		"dimension":       float64(64),
		"auto_id":         false,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
}

func TestHandleInsertEntities_EmptyData(t *testing.T) {
	s := newTestServer(t, `{}`, nil)

	res, err := s.handleInsertEntities(context.Background(), callReq(map[string]any{
		"cluster_id":      "in01-abc",
		"collection_name": "books",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for empty data")
	}
}

func TestHandlerReportsBusinessErrorVerbatim(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":80001,"message":"collection not found: books","data":null}`))
	}))
	t.Cleanup(upstream.Close)

	client := zilliz.New(upstream.URL, "test-token", 5*time.Second,
		zilliz.WithHTTPClient(upstream.Client()),
		zilliz.WithEndpointTemplate(upstream.URL))
	s := New(config.ServerConfig{}, "test",
		cloud.NewService(client, "gcp-us-west1", nil),
		vectordb.NewService(client, "gcp-us-west1", nil),
		nil, nil)

	res, err := s.handleDropCollection(context.Background(), callReq(map[string]any{
		"cluster_id":      "in01-abc",
		"collection_name": "books",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error")
	}
	if got := resultText(t, res); !strings.Contains(got, "collection not found: books") {
		t.Errorf("error text = %q, want upstream message verbatim", got)
	}
}

func TestParseTransport(t *testing.T) {
	cases := []struct {
		in      string
		want    Transport
		wantErr bool
	}{
		{"", TransportStdio, false},
		{"stdio", TransportStdio, false},
		{"sse", TransportSSE, false},
		{"streamable-http", TransportStreamableHTTP, false},
		{"websocket", "", true},
	}
	for _, tc := range cases {
		got, err := ParseTransport(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTransport(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseTransport(%q) = %v, %v", tc.in, got, err)
		}
	}
}
