package crawlbase

import "context"

// LeadsClient looks up e-mail leads for a domain. It is GET only and takes no options.
type LeadsClient struct {
	c *Client
}

// NewLeadsClient creates a client for the Leads API. Requires a normal token.
func NewLeadsClient(token string, opts ...Option) (*LeadsClient, error) {
	c, err := New(token, Leads, opts...)
	if err != nil {
		return nil, err
	}
	return &LeadsClient{c: c}, nil
}

// Token returns the authentication token.
func (l *LeadsClient) Token() string { return l.c.Token() }

// Get returns the leads found for domain. Body holds the JSON text verbatim.
func (l *LeadsClient) Get(ctx context.Context, domain string) (*Result, error) {
	return l.c.Get(ctx, domain, nil)
}
