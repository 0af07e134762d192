// Package register resolves stations against the national radio-licence
// register: callsign search, licence-detail extraction, and site coordinate
// lookup. The register is an uncontrolled third party with no API; every
// field is scraped tolerantly and independently, and every request goes
// through the shared rate-limited fetcher.
package register

import (
	"context"
	"fmt"
	"net/url"
)

// Fetcher is the transport the resolvers use. The politeness interval between
// register requests is the fetcher's responsibility.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
	PostForm(ctx context.Context, url string, form url.Values) (string, error)
}

// Endpoints holds the register URLs.
type Endpoints struct {
	// SearchURL receives the callsign search POST.
	SearchURL string
	// LicenceURL is the licence-detail page, formatted with a numeric
	// licence id.
	LicenceURL string
	// SiteURL is the site-detail page, formatted with a numeric site id.
	SiteURL string
}

// Client resolves licence and site records from the register.
type Client struct {
	fetcher Fetcher
	ep      Endpoints
}

// NewClient creates a register client.
func NewClient(f Fetcher, ep Endpoints) *Client {
	return &Client{fetcher: f, ep: ep}
}

func (c *Client) licenceURL(id string) string {
	return fmt.Sprintf(c.ep.LicenceURL, id)
}

func (c *Client) siteURL(id string) string {
	return fmt.Sprintf(c.ep.SiteURL, id)
}
