// Package vectordb implements the data-plane tool services against a
// cluster's RESTful vector-database API. Payloads in and out stay opaque
// JSON: the service fills defaults and required fields, then hands the
// upstream response through unmodified so callers see exactly what the
// cluster returned.
package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/flemzord/zilliz-mcp/internal/zilliz"
)

// DefaultDatabase is used when a tool call omits dbName.
const DefaultDatabase = "default"

// Service exposes the data-plane operations backing the vectordb_* tools.
// Every call targets one cluster, resolved to its endpoint by the client.
type Service struct {
	client *zilliz.Client
	region string
	logger *slog.Logger
}

// NewService creates a data-plane service. region is forwarded to the
// endpoint resolver for template-based resolution.
func NewService(client *zilliz.Client, region string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		region: region,
		logger: logger.With("component", "vectordb"),
	}
}

func (s *Service) post(ctx context.Context, clusterID, path string, body map[string]any) (json.RawMessage, error) {
	if clusterID == "" {
		return nil, fmt.Errorf("cluster_id is required")
	}
	return s.client.Data(ctx, http.MethodPost, path, clusterID, s.region, nil, body)
}

// ListDatabases returns the databases on a cluster.
func (s *Service) ListDatabases(ctx context.Context, clusterID string) (json.RawMessage, error) {
	return s.post(ctx, clusterID, "/v2/vectordb/databases/list", map[string]any{})
}

// ListCollections returns the collections in a database.
func (s *Service) ListCollections(ctx context.Context, clusterID, dbName string) (json.RawMessage, error) {
	if dbName == "" {
		dbName = DefaultDatabase
	}
	return s.post(ctx, clusterID, "/v2/vectordb/collections/list", map[string]any{
		"dbName": dbName,
	})
}

// DescribeCollection returns schema, indexes and load state for one collection.
func (s *Service) DescribeCollection(ctx context.Context, clusterID, dbName, collection string) (json.RawMessage, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection_name is required")
	}
	if dbName == "" {
		dbName = DefaultDatabase
	}
	return s.post(ctx, clusterID, "/v2/vectordb/collections/describe", map[string]any{
		"dbName":         dbName,
		"collectionName": collection,
	})
}

// CreateCollectionParams carries the quick-setup knobs for CreateCollection.
// Zero values fall back to the upstream quick-setup defaults.
type CreateCollectionParams struct {
	DBName         string
	CollectionName string
	Dimension      int
	MetricType     string // default L2
	IDType         string // default Int64
	AutoID         *bool  // default true
	PrimaryField   string // default "id"
	VectorField    string // default "vector"
}

// CreateCollection creates a collection in quick-setup mode: one primary
// key, one vector field, index created and collection loaded on return.
func (s *Service) CreateCollection(ctx context.Context, clusterID string, p CreateCollectionParams) (json.RawMessage, error) {
	if p.CollectionName == "" {
		return nil, fmt.Errorf("collection_name is required")
	}
	if p.Dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive")
	}
	if p.DBName == "" {
		p.DBName = DefaultDatabase
	}
	if p.MetricType == "" {
		p.MetricType = "L2"
	}
	if p.IDType == "" {
		p.IDType = "Int64"
	}
	if p.PrimaryField == "" {
		p.PrimaryField = "id"
	}
	if p.VectorField == "" {
		p.VectorField = "vector"
	}
	autoID := true
	if p.AutoID != nil {
		autoID = *p.AutoID
	}

	body := map[string]any{
		"dbName":           p.DBName,
		"collectionName":   p.CollectionName,
		"dimension":        p.Dimension,
		"metricType":       p.MetricType,
		"idType":           p.IDType,
		"autoID":           autoID,
		"primaryFieldName": p.PrimaryField,
		"vectorFieldName":  p.VectorField,
	}
	// VarChar primary keys need an explicit max length or the create is
	// rejected upstream.
	if p.IDType == "VarChar" {
		body["params"] = map[string]any{"max_length": 255}
	}

	data, err := s.post(ctx, clusterID, "/v2/vectordb/collections/create", body)
	if err != nil {
		return nil, err
	}
	s.logger.Info("collection created",
		"cluster_id", clusterID,
		"db_name", p.DBName,
		"collection", p.CollectionName)
	return data, nil
}

// DropCollection removes a collection and all of its data.
func (s *Service) DropCollection(ctx context.Context, clusterID, dbName, collection string) (json.RawMessage, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection_name is required")
	}
	if dbName == "" {
		dbName = DefaultDatabase
	}
	data, err := s.post(ctx, clusterID, "/v2/vectordb/collections/drop", map[string]any{
		"dbName":         dbName,
		"collectionName": collection,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("collection dropped",
		"cluster_id", clusterID,
		"db_name", dbName,
		"collection", collection)
	return data, nil
}

// Insert writes entities into a collection. data is the upstream row
// format: a list of objects keyed by field name.
func (s *Service) Insert(ctx context.Context, clusterID, dbName, collection string, data []any) (json.RawMessage, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection_name is required")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("data must contain at least one entity")
	}
	if dbName == "" {
		dbName = DefaultDatabase
	}
	return s.post(ctx, clusterID, "/v2/vectordb/entities/insert", map[string]any{
		"dbName":         dbName,
		"collectionName": collection,
		"data":           data,
	})
}

// Delete removes entities matching a filter expression.
func (s *Service) Delete(ctx context.Context, clusterID, dbName, collection, filter string) (json.RawMessage, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection_name is required")
	}
	if filter == "" {
		return nil, fmt.Errorf("filter is required")
	}
	if dbName == "" {
		dbName = DefaultDatabase
	}
	return s.post(ctx, clusterID, "/v2/vectordb/entities/delete", map[string]any{
		"dbName":         dbName,
		"collectionName": collection,
		"filter":         filter,
	})
}

// QueryParams carries the scalar-query arguments.
type QueryParams struct {
	DBName         string
	CollectionName string
	Filter         string
	OutputFields   []string
	Limit          int
}

// Query runs a scalar filter query and returns the matching entities.
func (s *Service) Query(ctx context.Context, clusterID string, p QueryParams) (json.RawMessage, error) {
	if p.CollectionName == "" {
		return nil, fmt.Errorf("collection_name is required")
	}
	if p.Filter == "" {
		return nil, fmt.Errorf("filter is required")
	}
	if p.DBName == "" {
		p.DBName = DefaultDatabase
	}
	body := map[string]any{
		"dbName":         p.DBName,
		"collectionName": p.CollectionName,
		"filter":         p.Filter,
	}
	if len(p.OutputFields) > 0 {
		body["outputFields"] = p.OutputFields
	}
	if p.Limit > 0 {
		body["limit"] = p.Limit
	}
	return s.post(ctx, clusterID, "/v2/vectordb/entities/query", body)
}

// SearchParams carries the vector-search arguments. Data holds one or
// more query vectors in the upstream wire shape.
type SearchParams struct {
	DBName         string
	CollectionName string
	Data           []any
	AnnsField      string
	Filter         string
	Limit          int
	OutputFields   []string
	SearchParams   map[string]any
}

// Search runs an approximate-nearest-neighbour search.
func (s *Service) Search(ctx context.Context, clusterID string, p SearchParams) (json.RawMessage, error) {
	if p.CollectionName == "" {
		return nil, fmt.Errorf("collection_name is required")
	}
	if len(p.Data) == 0 {
		return nil, fmt.Errorf("data must contain at least one query vector")
	}
	if p.DBName == "" {
		p.DBName = DefaultDatabase
	}
	body := map[string]any{
		"dbName":         p.DBName,
		"collectionName": p.CollectionName,
		"data":           p.Data,
	}
	if p.AnnsField != "" {
		body["annsField"] = p.AnnsField
	}
	if p.Filter != "" {
		body["filter"] = p.Filter
	}
	if p.Limit > 0 {
		body["limit"] = p.Limit
	}
	if len(p.OutputFields) > 0 {
		body["outputFields"] = p.OutputFields
	}
	if len(p.SearchParams) > 0 {
		body["searchParams"] = p.SearchParams
	}
	return s.post(ctx, clusterID, "/v2/vectordb/entities/search", body)
}

// HybridSearchParams carries the multi-vector search arguments. Search
// holds the per-field sub-searches, Rerank the fusion strategy, both in
// the upstream wire shape.
type HybridSearchParams struct {
	DBName         string
	CollectionName string
	Search         []any
	Rerank         map[string]any
	Limit          int
	OutputFields   []string
}

// HybridSearch runs several sub-searches and fuses their results.
func (s *Service) HybridSearch(ctx context.Context, clusterID string, p HybridSearchParams) (json.RawMessage, error) {
	if p.CollectionName == "" {
		return nil, fmt.Errorf("collection_name is required")
	}
	if len(p.Search) == 0 {
		return nil, fmt.Errorf("search must contain at least one sub-search")
	}
	if len(p.Rerank) == 0 {
		return nil, fmt.Errorf("rerank strategy is required")
	}
	if p.DBName == "" {
		p.DBName = DefaultDatabase
	}
	body := map[string]any{
		"dbName":         p.DBName,
		"collectionName": p.CollectionName,
		"search":         p.Search,
		"rerank":         p.Rerank,
	}
	if p.Limit > 0 {
		body["limit"] = p.Limit
	}
	if len(p.OutputFields) > 0 {
		body["outputFields"] = p.OutputFields
	}
	return s.post(ctx, clusterID, "/v2/vectordb/entities/hybrid_search", body)
}
