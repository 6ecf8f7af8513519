package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flemzord/zilliz-mcp/internal/vectordb"
)

// toolResult marshals a typed value for the model. Raw upstream payloads
// pass through as-is so nothing is lost in re-encoding.
func toolResult(v any) (*mcp.CallToolResult, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return mcp.NewToolResultText(string(raw)), nil
	}
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

// toolError reports a failed call as a tool error, not a protocol error,
// so the model sees the upstream message and can react to it.
func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// anySlice reads an optional array argument.
func anySlice(req mcp.CallToolRequest, key string) []any {
	v, ok := req.GetArguments()[key]
	if !ok {
		return nil
	}
	items, _ := v.([]any)
	return items
}

// stringSlice reads an optional array-of-strings argument, skipping
// non-string items.
func stringSlice(req mcp.CallToolRequest, key string) []string {
	items := anySlice(req, key)
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// objectArg reads an optional object argument.
func objectArg(req mcp.CallToolRequest, key string) map[string]any {
	v, ok := req.GetArguments()[key]
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

func (s *Server) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.cloud.ListProjects(ctx)
	if err != nil {
		return toolError(err)
	}
	return toolResult(projects)
}

func (s *Server) handleListClusters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageSize := req.GetInt("page_size", 0)
	currentPage := req.GetInt("current_page", 0)

	clusters, err := s.cloud.ListClusters(ctx, pageSize, currentPage)
	if err != nil {
		return toolError(err)
	}
	return toolResult(clusters)
}

func (s *Server) handleDescribeCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}

	cluster, err := s.cloud.DescribeCluster(ctx, clusterID)
	if err != nil {
		return toolError(err)
	}
	return toolResult(cluster)
}

func (s *Server) handleCreateFreeCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterName, err := req.RequireString("cluster_name")
	if err != nil {
		return toolError(err)
	}
	projectID, err := req.RequireString("project_id")
	if err != nil {
		return toolError(err)
	}

	created, err := s.cloud.CreateFreeCluster(ctx, clusterName, projectID)
	if err != nil {
		return toolError(err)
	}
	return toolResult(created)
}

func (s *Server) handleSuspendCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}

	action, err := s.cloud.SuspendCluster(ctx, clusterID)
	if err != nil {
		return toolError(err)
	}
	return toolResult(action)
}

func (s *Server) handleResumeCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}

	action, err := s.cloud.ResumeCluster(ctx, clusterID)
	if err != nil {
		return toolError(err)
	}
	return toolResult(action)
}

func (s *Server) handleQueryClusterMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}
	start, err := req.RequireString("start")
	if err != nil {
		return toolError(err)
	}
	end, err := req.RequireString("end")
	if err != nil {
		return toolError(err)
	}
	granularity, err := req.RequireString("granularity")
	if err != nil {
		return toolError(err)
	}
	queries := anySlice(req, "metric_queries")

	data, err := s.cloud.QueryClusterMetrics(ctx, clusterID, start, end, granularity, queries)
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}

func (s *Server) handleListDatabases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}

	data, err := s.vectordb.ListDatabases(ctx, clusterID)
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}

func (s *Server) handleListCollections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}
	dbName := req.GetString("db_name", "")

	data, err := s.vectordb.ListCollections(ctx, clusterID, dbName)
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}

func (s *Server) handleDescribeCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}
	collection, err := req.RequireString("collection_name")
	if err != nil {
		return toolError(err)
	}
	dbName := req.GetString("db_name", "")

	data, err := s.vectordb.DescribeCollection(ctx, clusterID, dbName, collection)
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}

func (s *Server) handleCreateCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}
	collection, err := req.RequireString("collection_name")
	if err != nil {
		return toolError(err)
	}
	dimension := req.GetInt("dimension", 0)

	params := vectordb.CreateCollectionParams{
		DBName:         req.GetString("db_name", ""),
		CollectionName: collection,
		Dimension:      dimension,
		MetricType:     req.GetString("metric_type", ""),
		IDType:         req.GetString("id_type", ""),
		PrimaryField:   req.GetString("primary_field_name", ""),
		VectorField:    req.GetString("vector_field_name", ""),
	}
	if _, ok := req.GetArguments()["auto_id"]; ok {
		autoID := req.GetBool("auto_id", true)
		params.AutoID = &autoID
	}

	data, err := s.vectordb.CreateCollection(ctx, clusterID, params)
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}

func (s *Server) handleDropCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}
	collection, err := req.RequireString("collection_name")
	if err != nil {
		return toolError(err)
	}
	dbName := req.GetString("db_name", "")

	data, err := s.vectordb.DropCollection(ctx, clusterID, dbName, collection)
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}

func (s *Server) handleInsertEntities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}
	collection, err := req.RequireString("collection_name")
	if err != nil {
		return toolError(err)
	}
	dbName := req.GetString("db_name", "")
	rows := anySlice(req, "data")

	data, err := s.vectordb.Insert(ctx, clusterID, dbName, collection, rows)
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}

func (s *Server) handleDeleteEntities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}
	collection, err := req.RequireString("collection_name")
	if err != nil {
		return toolError(err)
	}
	filter, err := req.RequireString("filter")
	if err != nil {
		return toolError(err)
	}
	dbName := req.GetString("db_name", "")

	data, err := s.vectordb.Delete(ctx, clusterID, dbName, collection, filter)
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}

func (s *Server) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}
	collection, err := req.RequireString("collection_name")
	if err != nil {
		return toolError(err)
	}
	filter, err := req.RequireString("filter")
	if err != nil {
		return toolError(err)
	}

	data, err := s.vectordb.Query(ctx, clusterID, vectordb.QueryParams{
		DBName:         req.GetString("db_name", ""),
		CollectionName: collection,
		Filter:         filter,
		OutputFields:   stringSlice(req, "output_fields"),
		Limit:          req.GetInt("limit", 0),
	})
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}
	collection, err := req.RequireString("collection_name")
	if err != nil {
		return toolError(err)
	}

	data, err := s.vectordb.Search(ctx, clusterID, vectordb.SearchParams{
		DBName:         req.GetString("db_name", ""),
		CollectionName: collection,
		Data:           anySlice(req, "data"),
		AnnsField:      req.GetString("anns_field", ""),
		Filter:         req.GetString("filter", ""),
		Limit:          req.GetInt("limit", 0),
		OutputFields:   stringSlice(req, "output_fields"),
		SearchParams:   objectArg(req, "search_params"),
	})
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}

func (s *Server) handleHybridSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, err := req.RequireString("cluster_id")
	if err != nil {
		return toolError(err)
	}
	collection, err := req.RequireString("collection_name")
	if err != nil {
		return toolError(err)
	}

	data, err := s.vectordb.HybridSearch(ctx, clusterID, vectordb.HybridSearchParams{
		DBName:         req.GetString("db_name", ""),
		CollectionName: collection,
		Search:         anySlice(req, "search"),
		Rerank:         objectArg(req, "rerank"),
		Limit:          req.GetInt("limit", 0),
		OutputFields:   stringSlice(req, "output_fields"),
	})
	if err != nil {
		return toolError(err)
	}
	return toolResult(data)
}
