// Package config handles configuration loading for zilliz-mcp: environment
// variables first, with an optional YAML overlay supporting ${VAR} expansion,
// and a single validation gate applied before anything else starts.
package config

import "time"

// Default values applied by defaults(). Kept in one place so `config init`
// and the loader agree on them.
const (
	DefaultCloudURI          = "https://api.cloud.zilliz.com"
	DefaultFreeClusterRegion = "gcp-us-west1"
	DefaultHost              = "localhost"
	DefaultPort              = 8000
	DefaultTimeout           = 30 * time.Second
)

// Config is the immutable configuration record. It is constructed once at
// startup and never re-read afterwards.
type Config struct {
	// Zilliz holds credentials and base URLs for both API planes.
	Zilliz ZillizConfig `yaml:"zilliz"`

	// Server holds the MCP server listen settings (network transports only).
	Server ServerConfig `yaml:"server"`

	// Cache holds optional endpoint-cache persistence settings.
	Cache CacheConfig `yaml:"cache,omitempty"`

	// Telemetry holds optional OpenTelemetry export settings.
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
}

// ZillizConfig holds credentials and endpoints for the Zilliz Cloud control
// plane and the per-cluster Milvus data plane.
type ZillizConfig struct {
	// Token is the Zilliz Cloud API key. Required.
	Token string `yaml:"token"`

	// CloudURI is the control-plane base URL.
	CloudURI string `yaml:"cloud_uri"`

	// ClusterEndpoint is an optional data-plane endpoint template containing
	// {CLUSTER_ID} and {CLOUD_REGION} placeholders. When empty, endpoints are
	// resolved per cluster via a control-plane describe call.
	ClusterEndpoint string `yaml:"cluster_endpoint,omitempty"`

	// FreeClusterRegion is the region used by the create_free_cluster tool.
	FreeClusterRegion string `yaml:"free_cluster_region"`

	// Timeout bounds every remote call, connection establishment included.
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig holds the listen settings for the SSE and streamable-http
// transports. Ignored when running over stdio.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CacheConfig controls endpoint-cache persistence and refresh.
type CacheConfig struct {
	// Path is a SQLite file backing the endpoint cache. Empty keeps the
	// cache in memory only.
	Path string `yaml:"path,omitempty"`

	// RefreshSchedule is a cron expression for re-resolving cached cluster
	// endpoints. Empty disables the refresh job.
	RefreshSchedule string `yaml:"refresh_schedule,omitempty"`
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	// OTLPEndpoint is the OTLP/HTTP collector endpoint (host:port). Empty
	// disables trace export.
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
}

// defaults fills in zero-value fields with the documented defaults.
// The token is deliberately not defaulted: its absence is a fatal
// validation error, never something to paper over.
func (c *Config) defaults() {
	if c.Zilliz.CloudURI == "" {
		c.Zilliz.CloudURI = DefaultCloudURI
	}
	if c.Zilliz.FreeClusterRegion == "" {
		c.Zilliz.FreeClusterRegion = DefaultFreeClusterRegion
	}
	if c.Zilliz.Timeout == 0 {
		c.Zilliz.Timeout = DefaultTimeout
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
}
