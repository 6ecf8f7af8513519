package cloud

// Project summarises one Zilliz Cloud project for tool output.
type Project struct {
	ProjectName   string `json:"project_name"`
	ProjectID     string `json:"project_id"`
	InstanceCount int    `json:"instance_count"`
	CreateTime    string `json:"create_time"`
}

// Cluster summarises one cluster for tool output.
type Cluster struct {
	ClusterID          string `json:"cluster_id"`
	ClusterName        string `json:"cluster_name"`
	Description        string `json:"description,omitempty"`
	RegionID           string `json:"region_id"`
	Plan               string `json:"plan"`
	CUType             string `json:"cu_type,omitempty"`
	CUSize             int    `json:"cu_size"`
	Status             string `json:"status"`
	ConnectAddress     string `json:"connect_address"`
	PrivateLinkAddress string `json:"private_link_address,omitempty"`
	ProjectID          string `json:"project_id"`
	CreateTime         string `json:"create_time"`
}

// FreeCluster is the outcome of creating a free-tier cluster. The upstream
// prompt explains how long provisioning takes and where the password went.
type FreeCluster struct {
	ClusterID string `json:"cluster_id"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	Prompt    string `json:"prompt"`
}

// ClusterAction is the outcome of a suspend or resume call.
type ClusterAction struct {
	ClusterID string `json:"cluster_id"`
	Prompt    string `json:"prompt"`
}

// Upstream wire shapes. The control plane speaks camelCase; the structs
// above are what tools emit.

type projectRecord struct {
	ProjectName   string `json:"projectName"`
	ProjectID     string `json:"projectId"`
	InstanceCount int    `json:"instanceCount"`
	CreateTime    string `json:"createTime"`
}

type clusterRecord struct {
	ClusterID          string `json:"clusterId"`
	ClusterName        string `json:"clusterName"`
	Description        string `json:"description"`
	RegionID           string `json:"regionId"`
	Plan               string `json:"plan"`
	CUType             string `json:"cuType"`
	CUSize             int    `json:"cuSize"`
	Status             string `json:"status"`
	ConnectAddress     string `json:"connectAddress"`
	PrivateLinkAddress string `json:"privateLinkAddress"`
	ProjectID          string `json:"projectId"`
	CreateTime         string `json:"createTime"`
}

type clusterPage struct {
	Count       int             `json:"count"`
	CurrentPage int             `json:"currentPage"`
	PageSize    int             `json:"pageSize"`
	Clusters    []clusterRecord `json:"clusters"`
}

type freeClusterRecord struct {
	ClusterID string `json:"clusterId"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Prompt    string `json:"prompt"`
}

type clusterActionRecord struct {
	ClusterID string `json:"clusterId"`
	Prompt    string `json:"prompt"`
}

func (r clusterRecord) summary() Cluster {
	return Cluster{
		ClusterID:          r.ClusterID,
		ClusterName:        r.ClusterName,
		Description:        r.Description,
		RegionID:           r.RegionID,
		Plan:               r.Plan,
		CUType:             r.CUType,
		CUSize:             r.CUSize,
		Status:             r.Status,
		ConnectAddress:     r.ConnectAddress,
		PrivateLinkAddress: r.PrivateLinkAddress,
		ProjectID:          r.ProjectID,
		CreateTime:         r.CreateTime,
	}
}
