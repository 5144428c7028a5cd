// Package messaging is the webhook dispatch pipeline: it authenticates one
// inbound delivery, routes it to the registered channel, invokes the handler
// per event, and sends any replies through the platform client.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/midori-bot/midori/internal/channel"
	"github.com/midori-bot/midori/internal/line"
	"github.com/midori-bot/midori/internal/pkg/logs"
	"github.com/midori-bot/midori/internal/reply"
	"github.com/midori-bot/midori/internal/signature"
	"github.com/midori-bot/midori/internal/webhook"
)

// SignatureHeader is the request header carrying the delivery digest.
const SignatureHeader = "X-Line-Signature"

// SignatureError means the delivery digest did not match the channel secret.
// The message deliberately does not say which part failed.
type SignatureError struct{}

func (e *SignatureError) Error() string {
	return "webhook signature verification failed"
}

// RequestBodyError wraps a malformed or schema-mismatched delivery body.
type RequestBodyError struct {
	Err error
}

func (e *RequestBodyError) Error() string {
	return fmt.Sprintf("invalid webhook request body: %v", e.Err)
}

func (e *RequestBodyError) Unwrap() error { return e.Err }

// API composes the channel registry with the outbound collaborators. Token
// issuance and reply transport are interfaces so the pipeline is testable
// without network calls.
type API struct {
	registry  *channel.Registry
	issuer    line.Issuer
	transport line.ReplyTransport
}

// New builds an API around the given collaborators.
func New(issuer line.Issuer, transport line.ReplyTransport) *API {
	return &API{
		registry:  channel.NewRegistry(),
		issuer:    issuer,
		transport: transport,
	}
}

// AddChannel registers ch and returns the API for chaining. A channel with
// an already-registered key replaces the previous one.
func (a *API) AddChannel(ch *channel.Channel) *API {
	a.registry.Register(ch)
	return a
}

// Verify checks digest against the raw message using the secret of the
// channel registered under key. It does not dispatch anything.
func (a *API) Verify(key string, message, digest []byte) error {
	h, err := a.registry.Resolve(key)
	if err != nil {
		return err
	}
	defer h.Release()
	if !signature.Verify([]byte(h.Channel().Secret()), message, digest) {
		return &SignatureError{}
	}
	return nil
}

// HandleWebhook processes one delivery: parse, resolve the destination
// channel, verify the signature over the raw bytes, then dispatch each event
// in order. The first failing step aborts the remaining events and is
// surfaced to the caller; the webhook contract treats the whole delivery as
// one transaction.
func (a *API) HandleWebhook(ctx context.Context, body, digest []byte) error {
	req, err := webhook.ParseRequestBody(body)
	if err != nil {
		return &RequestBodyError{Err: err}
	}

	h, err := a.registry.Resolve(req.Destination)
	if err != nil {
		return err
	}
	defer h.Release()
	ch := h.Channel()

	// Nothing reaches handler code before the signature checks out.
	if !signature.Verify([]byte(ch.Secret()), req.Src, digest) {
		logs.CtxWarn(ctx, "[messaging] rejected unauthenticated delivery for channel %d", ch.ID())
		return &SignatureError{}
	}

	for i := range req.Events {
		ev := &req.Events[i]

		r, err := ch.Handler().HandleEvent(ctx, ev)
		if err != nil {
			return fmt.Errorf("handle %s event: %w", ev.Type, err)
		}
		if r == nil {
			continue
		}

		if !ev.HasReplyToken() {
			// Policy: a reply to an unanswerable event (unfollow, leave, ...)
			// is dropped with a warning; the delivery continues.
			logs.CtxWarn(ctx, "[messaging] dropping reply: %s event carries no reply token", ev.Type)
			continue
		}
		r.SetToken(ev.ReplyToken)

		if err := a.sendReply(ctx, ch, r); err != nil {
			return err
		}
	}
	return nil
}

// sendReply ensures an access token and posts the reply. A 401 from the
// reply endpoint invalidates the cached token, reissues, and retries the
// send exactly once; any other rejection surfaces immediately.
func (a *API) sendReply(ctx context.Context, ch *channel.Channel, r *reply.Reply) error {
	token, err := a.ensureToken(ctx, ch)
	if err != nil {
		return err
	}

	err = a.transport.Send(ctx, token, r)

	var statusErr *line.ReplyStatusError
	if errors.As(err, &statusErr) && statusErr.Status == http.StatusUnauthorized {
		logs.CtxWarn(ctx, "[messaging] cached token rejected for channel %d, reissuing", ch.ID())
		ch.InvalidateToken()
		token, err = a.ensureToken(ctx, ch)
		if err != nil {
			return err
		}
		err = a.transport.Send(ctx, token, r)
	}
	return err
}

// ensureToken returns the channel's cached access token, issuing one on the
// first dispatch. The caller holds the channel handle, so concurrent cold
// dispatches cannot race into duplicate issuance.
func (a *API) ensureToken(ctx context.Context, ch *channel.Channel) (string, error) {
	if token, ok := ch.Token(); ok {
		return token, nil
	}
	token, err := a.issuer.Issue(ctx, ch.ID(), ch.Secret())
	if err != nil {
		return "", err
	}
	ch.SetToken(token)
	return token, nil
}
