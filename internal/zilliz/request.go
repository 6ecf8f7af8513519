package zilliz

import (
	"net/url"
	"strconv"
	"strings"
)

// Plane selects which API surface a request targets.
type Plane string

// Plane values.
const (
	// PlaneControl is the Zilliz Cloud management API (projects, clusters,
	// metrics). Requests go to the fixed cloud URI.
	PlaneControl Plane = "control"

	// PlaneData is the per-cluster Milvus API (databases, collections,
	// entities). Requests go to an endpoint resolved from the cluster id.
	PlaneData Plane = "data"
)

// Request describes one remote call. It is ephemeral: built by a tool
// service, consumed by Client.Execute, and discarded.
type Request struct {
	// Plane selects the target API surface.
	Plane Plane

	// Method is the HTTP verb (GET, POST, DELETE).
	Method string

	// Path is the URI path relative to the plane's base URL, e.g.
	// "/v2/clusters".
	Path string

	// Query holds the query parameters in the order they were added.
	Query Params

	// Body is an optional JSON body. When it is a map, keys with nil
	// values are stripped before marshalling: some upstream handlers
	// treat an explicit null differently from an absent key.
	Body any

	// ClusterID identifies the target cluster. Required for PlaneData,
	// ignored for PlaneControl.
	ClusterID string

	// RegionID is the cloud region hosting the cluster. Used only when
	// the data-plane endpoint is resolved from a template.
	RegionID string
}

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters. Ordering is preserved in
// the encoded URL; a parameter that was never added is simply absent,
// which is distinct from one added with an empty value.
type Params []Param

// Set appends a parameter. An empty value is sent as an empty value, not
// omitted — callers that want omission just don't call Set.
func (p *Params) Set(key, value string) {
	*p = append(*p, Param{Key: key, Value: value})
}

// SetInt appends an integer parameter.
func (p *Params) SetInt(key string, value int) {
	p.Set(key, strconv.Itoa(value))
}

// Encode renders the parameters as a percent-encoded query string in
// insertion order. Returns "" when there are no parameters.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}
