package vectordb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flemzord/zilliz-mcp/internal/zilliz"
)

// capture records the last data-plane request for assertions.
type capture struct {
	path string
	body map[string]any
}

func newTestService(t *testing.T, data string, cap *capture) *Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.path = r.URL.Path
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		cap.body = nil
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &cap.body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":` + data + `}`))
	}))
	t.Cleanup(srv.Close)

	client := zilliz.New(srv.URL, "test-token", 5*time.Second,
		zilliz.WithHTTPClient(srv.Client()),
		zilliz.WithEndpointTemplate(srv.URL))
	return NewService(client, "gcp-us-west1", nil)
}

func TestListDatabases(t *testing.T) {
	var cap capture
	s := newTestService(t, `["default","prod"]`, &cap)

	data, err := s.ListDatabases(context.Background(), "in01-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cap.path != "/v2/vectordb/databases/list" {
		t.Errorf("path = %q", cap.path)
	}
	if string(data) != `["default","prod"]` {
		t.Errorf("data = %s, want passthrough", data)
	}
}

func TestListCollections_DefaultDatabase(t *testing.T) {
	var cap capture
	s := newTestService(t, `["books"]`, &cap)

	if _, err := s.ListCollections(context.Background(), "in01-abc", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cap.body["dbName"] != "default" {
		t.Errorf("dbName = %v, want default applied", cap.body["dbName"])
	}
}

func TestDescribeCollection(t *testing.T) {
	var cap capture
	s := newTestService(t, `{"collectionName":"books","load":"LoadStateLoaded"}`, &cap)

	if _, err := s.DescribeCollection(context.Background(), "in01-abc", "prod", "books"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cap.path != "/v2/vectordb/collections/describe" {
		t.Errorf("path = %q", cap.path)
	}
	if cap.body["dbName"] != "prod" || cap.body["collectionName"] != "books" {
		t.Errorf("body = %v", cap.body)
	}
}

func TestCreateCollection_Defaults(t *testing.T) {
	var cap capture
	s := newTestService(t, `{}`, &cap)

	_, err := s.CreateCollection(context.Background(), "in01-abc", CreateCollectionParams{
		CollectionName: "books",
		Dimension:      128,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{
		"dbName":           "default",
		"collectionName":   "books",
		"dimension":        float64(128),
		"metricType":       "L2",
		"idType":           "Int64",
		"autoID":           true,
		"primaryFieldName": "id",
		"vectorFieldName":  "vector",
	}
	for k, v := range want {
		if cap.body[k] != v {
			t.Errorf("body[%q] = %v, want %v", k, cap.body[k], v)
		}
	}
	if _, ok := cap.body["params"]; ok {
		t.Error("params should be absent for Int64 primary keys")
	}
}

func TestCreateCollection_VarCharMaxLength(t *testing.T) {
	var cap capture
	s := newTestService(t, `{}`, &cap)

	_, err := s.CreateCollection(context.Background(), "in01-abc", CreateCollectionParams{
		CollectionName: "books",
		Dimension:      128,
		IDType:         "VarChar",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	params, ok := cap.body["params"].(map[string]any)
	if !ok {
		t.Fatalf("params = %v, want object", cap.body["params"])
	}
	if params["max_length"] != float64(255) {
		t.Errorf("max_length = %v, want 255", params["max_length"])
	}
}

func TestCreateCollection_Validation(t *testing.T) {
	var cap capture
	s := newTestService(t, `{}`, &cap)

	cases := []struct {
		name string
		p    CreateCollectionParams
	}{
		{"missing name", CreateCollectionParams{Dimension: 8}},
		{"zero dimension", CreateCollectionParams{CollectionName: "books"}},
		{"negative dimension", CreateCollectionParams{CollectionName: "books", Dimension: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.CreateCollection(context.Background(), "in01-abc", tc.p); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestInsert(t *testing.T) {
	var cap capture
	s := newTestService(t, `{"insertCount":2}`, &cap)

	rows := []any{
		map[string]any{"vector": []float64{0.1, 0.2}, "title": "a"},
		map[string]any{"vector": []float64{0.3, 0.4}, "title": "b"},
	}
	if _, err := s.Insert(context.Background(), "in01-abc", "", "books", rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cap.path != "/v2/vectordb/entities/insert" {
		t.Errorf("path = %q", cap.path)
	}
	got, ok := cap.body["data"].([]any)
	if !ok || len(got) != 2 {
		t.Errorf("data = %v, want 2 rows", cap.body["data"])
	}

	if _, err := s.Insert(context.Background(), "in01-abc", "", "books", nil); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestDelete(t *testing.T) {
	var cap capture
	s := newTestService(t, `{"deleteCount":1}`, &cap)

	if _, err := s.Delete(context.Background(), "in01-abc", "", "books", "id in [1]"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cap.body["filter"] != "id in [1]" {
		t.Errorf("filter = %v", cap.body["filter"])
	}

	if _, err := s.Delete(context.Background(), "in01-abc", "", "books", ""); err == nil {
		t.Error("expected error for missing filter")
	}
}

func TestQuery_OptionalFieldsOmitted(t *testing.T) {
	var cap capture
	s := newTestService(t, `[]`, &cap)

	_, err := s.Query(context.Background(), "in01-abc", QueryParams{
		CollectionName: "books",
		Filter:         `title == "a"`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cap.body["outputFields"]; ok {
		t.Error("outputFields should be absent when unset")
	}
	if _, ok := cap.body["limit"]; ok {
		t.Error("limit should be absent when unset")
	}
}

func TestSearch(t *testing.T) {
	var cap capture
	s := newTestService(t, `[[{"id":1,"distance":0.1}]]`, &cap)

	_, err := s.Search(context.Background(), "in01-abc", SearchParams{
		CollectionName: "books",
		Data:           []any{[]float64{0.1, 0.2}},
		Limit:          5,
		OutputFields:   []string{"title"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cap.path != "/v2/vectordb/entities/search" {
		t.Errorf("path = %q", cap.path)
	}
	if cap.body["limit"] != float64(5) {
		t.Errorf("limit = %v", cap.body["limit"])
	}

	if _, err := s.Search(context.Background(), "in01-abc", SearchParams{CollectionName: "books"}); err == nil {
		t.Error("expected error for missing query vectors")
	}
}

func TestHybridSearch(t *testing.T) {
	var cap capture
	s := newTestService(t, `[]`, &cap)

	_, err := s.HybridSearch(context.Background(), "in01-abc", HybridSearchParams{
		CollectionName: "books",
		Search: []any{
			map[string]any{"annsField": "dense", "data": []any{[]float64{0.1}}},
			map[string]any{"annsField": "sparse", "data": []any{map[string]any{"1": 0.5}}},
		},
		Rerank: map[string]any{"strategy": "rrf", "params": map[string]any{"k": 60}},
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cap.path != "/v2/vectordb/entities/hybrid_search" {
		t.Errorf("path = %q", cap.path)
	}

	if _, err := s.HybridSearch(context.Background(), "in01-abc", HybridSearchParams{
		CollectionName: "books",
		Search:         []any{map[string]any{}},
	}); err == nil {
		t.Error("expected error for missing rerank strategy")
	}
}

func TestMissingClusterID(t *testing.T) {
	var cap capture
	s := newTestService(t, `{}`, &cap)

	if _, err := s.ListDatabases(context.Background(), ""); err == nil {
		t.Error("expected error for missing cluster_id")
	}
}
