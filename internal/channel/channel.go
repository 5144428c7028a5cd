// Package channel holds the per-bot credential unit and the registry that
// routes webhook deliveries to it.
package channel

import (
	"context"
	"strconv"

	"github.com/midori-bot/midori/internal/reply"
	"github.com/midori-bot/midori/internal/webhook"
)

// Handler is the single capability a channel needs: given an event,
// optionally produce a reply. A nil reply means there is nothing to send.
// Handlers must be idempotent or side-effect-free on the could-not-reply
// path, because a failed send does not undo the handler call.
type Handler interface {
	HandleEvent(ctx context.Context, ev *webhook.Event) (*reply.Reply, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, ev *webhook.Event) (*reply.Reply, error)

func (f HandlerFunc) HandleEvent(ctx context.Context, ev *webhook.Event) (*reply.Reply, error) {
	return f(ctx, ev)
}

// Channel bundles one bot credential: the numeric channel ID used for token
// issuance, the destination user ID webhooks are addressed to, the shared
// secret, a lazily issued access token, and the event handler.
//
// The secret is immutable after construction and must never be logged. The
// token cell is mutated only while the owner holds the registry handle for
// this channel.
type Channel struct {
	id      int64
	userID  string
	secret  string
	token   string
	handler Handler
}

// New constructs a Channel. userID may be empty when the deployment routes
// by numeric channel ID instead of destination user ID.
func New(id int64, userID, secret string, handler Handler) *Channel {
	return &Channel{
		id:      id,
		userID:  userID,
		secret:  secret,
		handler: handler,
	}
}

// ID returns the numeric channel identifier used for token issuance.
func (c *Channel) ID() int64 { return c.id }

// Key is the registry identity: the destination user ID when configured,
// otherwise the decimal channel ID.
func (c *Channel) Key() string {
	if c.userID != "" {
		return c.userID
	}
	return strconv.FormatInt(c.id, 10)
}

// Secret returns the shared webhook-signing secret.
func (c *Channel) Secret() string { return c.secret }

// Handler returns the event handler.
func (c *Channel) Handler() Handler { return c.handler }

// Token returns the cached access token, if one has been issued.
func (c *Channel) Token() (string, bool) {
	return c.token, c.token != ""
}

// SetToken caches an issued access token for reuse until process restart.
func (c *Channel) SetToken(token string) {
	c.token = token
}

// InvalidateToken drops the cached token so the next dispatch reissues.
func (c *Channel) InvalidateToken() {
	c.token = ""
}
