package zilliz

import "net/http"

// AuthStrategy injects plane-specific credentials into an outgoing request.
// The control plane and the data plane use differently shaped credentials
// derived from the same API key; keeping the shape behind an interface means
// an upstream change touches one strategy, not the client.
type AuthStrategy interface {
	// Authorize sets the Authorization header. clusterID is the resolved
	// target cluster for data-plane requests and empty for control-plane
	// requests.
	Authorize(r *http.Request, clusterID string)
}

// BearerAuth is the control-plane scheme: a plain bearer token.
type BearerAuth struct {
	Token string
}

// Authorize implements AuthStrategy.
func (b BearerAuth) Authorize(r *http.Request, _ string) {
	r.Header.Set("Authorization", "Bearer "+b.Token)
}

// ClusterAuth is the data-plane scheme. Dedicated clusters accept the
// cloud API key; clusters with local credentials use the user:password
// pair instead. Both travel as a bearer credential but the shapes are not
// interchangeable with the control-plane token handling, so this is a
// separate strategy.
type ClusterAuth struct {
	// Token is the cloud API key, used when Username is empty.
	Token string

	// Username and Password are cluster-local credentials. When set they
	// take precedence over Token.
	Username string
	Password string
}

// Authorize implements AuthStrategy.
func (c ClusterAuth) Authorize(r *http.Request, _ string) {
	if c.Username != "" {
		r.Header.Set("Authorization", "Bearer "+c.Username+":"+c.Password)
		return
	}
	r.Header.Set("Authorization", "Bearer "+c.Token)
}
