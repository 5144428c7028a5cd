// Package line is the outbound REST client for the messaging platform. It
// covers the two collaborator endpoints the dispatch pipeline needs: channel
// access-token issuance and event replies.
package line

import (
	"context"
	"net/http"
	"strings"

	"github.com/midori-bot/midori/internal/pkg/httpc"
	"github.com/midori-bot/midori/internal/reply"
)

const (
	// DefaultBaseURL is the public platform API origin.
	DefaultBaseURL = "https://api.line.me"

	tokenPath = "/v2/oauth/accessToken"
	replyPath = "/v2/bot/message/reply"
)

// Issuer issues channel access tokens. The pipeline calls it only when a
// channel has no cached token.
type Issuer interface {
	Issue(ctx context.Context, channelID int64, secret string) (string, error)
}

// ReplyTransport delivers a stitched reply using a bearer access token.
type ReplyTransport interface {
	Send(ctx context.Context, token string, r *reply.Reply) error
}

// Client implements Issuer and ReplyTransport against the platform REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

var (
	_ Issuer         = (*Client)(nil)
	_ ReplyTransport = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API origin (self-hosted
// deployments, test servers). Empty values are ignored.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpc = hc
		}
	}
}

// NewClient builds a Client with the shared decoding transport.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   httpc.NewClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
