// Package cloud implements the control-plane tool services: project and
// cluster lifecycle plus cluster metrics. Every method is a thin mapping
// from typed parameters to one unified-client call; no method interprets
// HTTP statuses or envelope codes — that is the client's job alone.
package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/flemzord/zilliz-mcp/internal/zilliz"
)

// Service exposes the control-plane operations backing the zilliz_* tools.
type Service struct {
	client     *zilliz.Client
	freeRegion string
	logger     *slog.Logger
}

// NewService creates a control-plane service. freeRegion is where
// CreateFreeCluster provisions new free-tier clusters.
func NewService(client *zilliz.Client, freeRegion string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:     client,
		freeRegion: freeRegion,
		logger:     logger.With("component", "cloud"),
	}
}

// ListProjects returns all projects visible to the API key.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	data, err := s.client.Control(ctx, http.MethodGet, "/v2/projects", nil, nil)
	if err != nil {
		return nil, err
	}

	var records []projectRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("cloud: decode projects: %w", err)
	}

	projects := make([]Project, 0, len(records))
	for _, r := range records {
		projects = append(projects, Project{
			ProjectName:   r.ProjectName,
			ProjectID:     r.ProjectID,
			InstanceCount: r.InstanceCount,
			CreateTime:    r.CreateTime,
		})
	}
	return projects, nil
}

// ListClusters returns one page of clusters scoped to the API key.
func (s *Service) ListClusters(ctx context.Context, pageSize, currentPage int) ([]Cluster, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if currentPage <= 0 {
		currentPage = 1
	}

	var q zilliz.Params
	q.SetInt("pageSize", pageSize)
	q.SetInt("currentPage", currentPage)

	data, err := s.client.Control(ctx, http.MethodGet, "/v2/clusters", q, nil)
	if err != nil {
		return nil, err
	}

	var page clusterPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("cloud: decode clusters: %w", err)
	}

	clusters := make([]Cluster, 0, len(page.Clusters))
	for _, r := range page.Clusters {
		clusters = append(clusters, r.summary())
	}
	return clusters, nil
}

// DescribeCluster returns the full detail of one cluster.
func (s *Service) DescribeCluster(ctx context.Context, clusterID string) (*Cluster, error) {
	if clusterID == "" {
		return nil, fmt.Errorf("cloud: cluster_id is required")
	}

	data, err := s.client.Control(ctx, http.MethodGet, "/v2/clusters/"+clusterID, nil, nil)
	if err != nil {
		return nil, err
	}

	var record clusterRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("cloud: decode cluster %s: %w", clusterID, err)
	}
	cluster := record.summary()
	return &cluster, nil
}

// CreateFreeCluster provisions a free-tier cluster in the configured
// free-cluster region.
func (s *Service) CreateFreeCluster(ctx context.Context, clusterName, projectID string) (*FreeCluster, error) {
	if clusterName == "" {
		return nil, fmt.Errorf("cloud: cluster_name is required")
	}
	if projectID == "" {
		return nil, fmt.Errorf("cloud: project_id is required")
	}

	body := map[string]any{
		"clusterName": clusterName,
		"projectId":   projectID,
		"regionId":    s.freeRegion,
	}

	data, err := s.client.Control(ctx, http.MethodPost, "/v2/clusters/createFree", nil, body)
	if err != nil {
		return nil, err
	}

	var record freeClusterRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("cloud: decode create response: %w", err)
	}

	s.logger.Info("free cluster created",
		"cluster_id", record.ClusterID,
		"region", s.freeRegion,
	)

	return &FreeCluster{
		ClusterID: record.ClusterID,
		Username:  record.Username,
		Password:  record.Password,
		Prompt:    record.Prompt,
	}, nil
}

// SuspendCluster stops a dedicated cluster's compute.
func (s *Service) SuspendCluster(ctx context.Context, clusterID string) (*ClusterAction, error) {
	return s.clusterAction(ctx, clusterID, "suspend")
}

// ResumeCluster restarts a suspended cluster.
func (s *Service) ResumeCluster(ctx context.Context, clusterID string) (*ClusterAction, error) {
	return s.clusterAction(ctx, clusterID, "resume")
}

func (s *Service) clusterAction(ctx context.Context, clusterID, action string) (*ClusterAction, error) {
	if clusterID == "" {
		return nil, fmt.Errorf("cloud: cluster_id is required")
	}

	data, err := s.client.Control(ctx, http.MethodPost, "/v2/clusters/"+clusterID+"/"+action, nil, map[string]any{})
	if err != nil {
		return nil, err
	}

	var record clusterActionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("cloud: decode %s response: %w", action, err)
	}
	return &ClusterAction{ClusterID: record.ClusterID, Prompt: record.Prompt}, nil
}

// QueryClusterMetrics fetches monitoring metrics for a cluster over a time
// window. The metric query list and the result are shuttled opaquely: their
// shape belongs to the upstream monitoring API, not to this server.
func (s *Service) QueryClusterMetrics(ctx context.Context, clusterID, start, end, granularity string, metricQueries []any) (json.RawMessage, error) {
	if clusterID == "" {
		return nil, fmt.Errorf("cloud: cluster_id is required")
	}
	if len(metricQueries) == 0 {
		return nil, fmt.Errorf("cloud: at least one metric query is required")
	}

	body := map[string]any{
		"start":         start,
		"end":           end,
		"granularity":   granularity,
		"metricQueries": metricQueries,
	}

	return s.client.Control(ctx, http.MethodPost, "/v2/clusters/"+clusterID+"/metrics/query", nil, body)
}
