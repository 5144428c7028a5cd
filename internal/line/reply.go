package line

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/midori-bot/midori/internal/pkg/logs"
	"github.com/midori-bot/midori/internal/reply"
)

// ErrEmptyReplyToken means a reply reached the dispatcher without a stitched
// token. The pipeline is responsible for stitching; hitting this is a
// programming error, not a platform rejection.
var ErrEmptyReplyToken = errors.New("reply token is empty")

// ReplyStatusError is a non-2xx response from the reply endpoint. It is
// surfaced to the caller rather than swallowed; Status 401 signals a stale
// or revoked access token.
type ReplyStatusError struct {
	Status int
}

func (e *ReplyStatusError) Error() string {
	return fmt.Sprintf("reply rejected with status %d", e.Status)
}

// Send posts r to the reply endpoint with bearer authorization. A 2xx
// response is success; anything else returns a *ReplyStatusError.
func (c *Client) Send(ctx context.Context, token string, r *reply.Reply) error {
	if r.Token() == "" {
		return ErrEmptyReplyToken
	}

	payload, err := sonic.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+replyPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("reply request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logs.CtxError(ctx, "[line] reply rejected: status %d", resp.StatusCode)
		return &ReplyStatusError{Status: resp.StatusCode}
	}

	logs.CtxDebug(ctx, "[line] reply delivered (%d messages)", len(r.Messages))
	return nil
}
