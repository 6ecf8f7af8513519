package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerTools binds the full tool catalogue to the MCP server. Control
// plane first, data plane second; tool names are stable API.
func (s *Server) registerTools(srv *server.MCPServer) {
	// Control plane.
	srv.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List all projects in the current Zilliz Cloud account"),
	), s.handleListProjects)

	srv.AddTool(mcp.NewTool("list_clusters",
		mcp.WithDescription("List all clusters in the current Zilliz Cloud account"),
		mcp.WithNumber("page_size",
			mcp.Description("Number of clusters per page (default 10)"),
		),
		mcp.WithNumber("current_page",
			mcp.Description("Page number to fetch, starting at 1 (default 1)"),
		),
	), s.handleListClusters)

	srv.AddTool(mcp.NewTool("describe_cluster",
		mcp.WithDescription("Describe a cluster: status, plan, connect address and sizing"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("ID of the cluster to describe"),
		),
	), s.handleDescribeCluster)

	srv.AddTool(mcp.NewTool("create_free_cluster",
		mcp.WithDescription("Create a free-tier cluster in Zilliz Cloud"),
		mcp.WithString("cluster_name",
			mcp.Required(),
			mcp.Description("Name for the new cluster"),
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project to create the cluster in (see list_projects)"),
		),
	), s.handleCreateFreeCluster)

	srv.AddTool(mcp.NewTool("suspend_cluster",
		mcp.WithDescription("Suspend a running cluster to stop compute billing"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("ID of the cluster to suspend"),
		),
	), s.handleSuspendCluster)

	srv.AddTool(mcp.NewTool("resume_cluster",
		mcp.WithDescription("Resume a suspended cluster"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("ID of the cluster to resume"),
		),
	), s.handleResumeCluster)

	srv.AddTool(mcp.NewTool("query_cluster_metrics",
		mcp.WithDescription("Query monitoring metrics for a cluster over a time range"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("ID of the cluster to query"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start of the range, RFC 3339 (e.g. 2024-01-01T00:00:00Z)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End of the range, RFC 3339"),
		),
		mcp.WithString("granularity",
			mcp.Required(),
			mcp.Description("Sampling interval, ISO 8601 duration (e.g. PT1M, PT30S)"),
		),
		mcp.WithArray("metric_queries",
			mcp.Required(),
			mcp.Description(`Metrics to query, e.g. [{"name":"CU_COMPUTATION"}]`),
		),
	), s.handleQueryClusterMetrics)

	// Data plane.
	srv.AddTool(mcp.NewTool("list_databases",
		mcp.WithDescription("List all databases in a cluster"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("Cluster to list databases from"),
		),
	), s.handleListDatabases)

	srv.AddTool(mcp.NewTool("list_collections",
		mcp.WithDescription("List all collections in a database"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("Cluster to list collections from"),
		),
		mcp.WithString("db_name",
			mcp.Description("Database name (default \"default\")"),
		),
	), s.handleListCollections)

	srv.AddTool(mcp.NewTool("describe_collection",
		mcp.WithDescription("Describe a collection: schema, indexes and load state"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("Cluster hosting the collection"),
		),
		mcp.WithString("collection_name",
			mcp.Required(),
			mcp.Description("Collection to describe"),
		),
		mcp.WithString("db_name",
			mcp.Description("Database name (default \"default\")"),
		),
	), s.handleDescribeCollection)

	srv.AddTool(mcp.NewTool("create_collection",
		mcp.WithDescription("Create a collection in quick-setup mode: primary key, vector field, index created and loaded"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("Cluster to create the collection in"),
		),
		mcp.WithString("collection_name",
			mcp.Required(),
			mcp.Description("Name for the new collection"),
		),
		mcp.WithNumber("dimension",
			mcp.Required(),
			mcp.Description("Dimensionality of the vector field"),
		),
		mcp.WithString("db_name",
			mcp.Description("Database name (default \"default\")"),
		),
		mcp.WithString("metric_type",
			mcp.Description("Distance metric: L2, IP or COSINE (default L2)"),
			mcp.Enum("L2", "IP", "COSINE"),
		),
		mcp.WithString("id_type",
			mcp.Description("Primary key type: Int64 or VarChar (default Int64)"),
			mcp.Enum("Int64", "VarChar"),
		),
		mcp.WithBoolean("auto_id",
			mcp.Description("Auto-generate primary keys (default true)"),
		),
		mcp.WithString("primary_field_name",
			mcp.Description("Primary key field name (default \"id\")"),
		),
		mcp.WithString("vector_field_name",
			mcp.Description("Vector field name (default \"vector\")"),
		),
	), s.handleCreateCollection)

	srv.AddTool(mcp.NewTool("drop_collection",
		mcp.WithDescription("Drop a collection and all of its data"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("Cluster hosting the collection"),
		),
		mcp.WithString("collection_name",
			mcp.Required(),
			mcp.Description("Collection to drop"),
		),
		mcp.WithString("db_name",
			mcp.Description("Database name (default \"default\")"),
		),
	), s.handleDropCollection)

	srv.AddTool(mcp.NewTool("insert_entities",
		mcp.WithDescription("Insert entities into a collection"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("Cluster hosting the collection"),
		),
		mcp.WithString("collection_name",
			mcp.Required(),
			mcp.Description("Collection to insert into"),
		),
		mcp.WithArray("data",
			mcp.Required(),
			mcp.Description(`Entities as a list of field-keyed objects, e.g. [{"vector":[0.1,0.2],"title":"a"}]`),
		),
		mcp.WithString("db_name",
			mcp.Description("Database name (default \"default\")"),
		),
	), s.handleInsertEntities)

	srv.AddTool(mcp.NewTool("delete_entities",
		mcp.WithDescription("Delete entities matching a filter expression"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("Cluster hosting the collection"),
		),
		mcp.WithString("collection_name",
			mcp.Required(),
			mcp.Description("Collection to delete from"),
		),
		mcp.WithString("filter",
			mcp.Required(),
			mcp.Description(`Boolean expression selecting entities, e.g. "id in [1,2,3]"`),
		),
		mcp.WithString("db_name",
			mcp.Description("Database name (default \"default\")"),
		),
	), s.handleDeleteEntities)

	srv.AddTool(mcp.NewTool("query",
		mcp.WithDescription("Query entities by scalar filter expression"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("Cluster hosting the collection"),
		),
		mcp.WithString("collection_name",
			mcp.Required(),
			mcp.Description("Collection to query"),
		),
		mcp.WithString("filter",
			mcp.Required(),
			mcp.Description(`Boolean expression, e.g. "color == \"red\""`),
		),
		mcp.WithArray("output_fields",
			mcp.Description("Fields to return (default all scalar fields)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entities to return"),
		),
		mcp.WithString("db_name",
			mcp.Description("Database name (default \"default\")"),
		),
	), s.handleQuery)

	srv.AddTool(mcp.NewTool("search",
		mcp.WithDescription("Vector similarity search over a collection"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("Cluster hosting the collection"),
		),
		mcp.WithString("collection_name",
			mcp.Required(),
			mcp.Description("Collection to search"),
		),
		mcp.WithArray("data",
			mcp.Required(),
			mcp.Description("Query vectors, e.g. [[0.1,0.2,0.3]]"),
		),
		mcp.WithString("anns_field",
			mcp.Description("Vector field to search (default the collection's vector field)"),
		),
		mcp.WithString("filter",
			mcp.Description("Optional boolean expression to pre-filter candidates"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results per query vector"),
		),
		mcp.WithArray("output_fields",
			mcp.Description("Fields to return alongside id and distance"),
		),
		mcp.WithObject("search_params",
			mcp.Description(`Extra search parameters, e.g. {"radius":0.5}`),
		),
	), s.handleSearch)

	srv.AddTool(mcp.NewTool("hybrid_search",
		mcp.WithDescription("Run multiple vector searches and fuse the results"),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("Cluster hosting the collection"),
		),
		mcp.WithString("collection_name",
			mcp.Required(),
			mcp.Description("Collection to search"),
		),
		mcp.WithArray("search",
			mcp.Required(),
			mcp.Description(`Sub-searches, e.g. [{"annsField":"dense","data":[[0.1,0.2]],"limit":10}]`),
		),
		mcp.WithObject("rerank",
			mcp.Required(),
			mcp.Description(`Fusion strategy, e.g. {"strategy":"rrf","params":{"k":60}}`),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of fused results"),
		),
		mcp.WithArray("output_fields",
			mcp.Description("Fields to return alongside id and distance"),
		),
	), s.handleHybridSearch)
}
