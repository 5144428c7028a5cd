package line

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/midori-bot/midori/internal/pkg/logs"
)

// accessTokenResponse is the 200 body of the token-issuance endpoint.
type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// oauthErrorBody is the structured 400 body of the token-issuance endpoint.
type oauthErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// OAuthErrorResponse is a structured rejection from the token endpoint.
type OAuthErrorResponse struct {
	Code        string
	Description string
}

func (e *OAuthErrorResponse) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("oauth error response: %s", e.Code)
	}
	return fmt.Sprintf("oauth error response: %s (%s)", e.Code, e.Description)
}

// OAuthStatusError is any token-endpoint status other than 200 or 400.
type OAuthStatusError struct {
	Status int
}

func (e *OAuthStatusError) Error() string {
	return fmt.Sprintf("oauth unexpected status response: %d", e.Status)
}

// Issue requests a channel access token with the client_credentials grant.
// The secret never appears in logs.
func (c *Client) Issue(ctx context.Context, channelID int64, secret string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", strconv.FormatInt(channelID, 10))
	form.Set("client_secret", secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	logs.CtxDebug(ctx, "[line] issuing access token for channel %d", channelID)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var body accessTokenResponse
		if err := sonic.Unmarshal(raw, &body); err != nil {
			return "", fmt.Errorf("decode token response: %w", err)
		}
		logs.CtxDebug(ctx, "[line] access token issued for channel %d", channelID)
		return body.AccessToken, nil

	case resp.StatusCode == http.StatusBadRequest:
		var body oauthErrorBody
		if err := sonic.Unmarshal(raw, &body); err != nil {
			return "", fmt.Errorf("decode token error response: %w", err)
		}
		logs.CtxError(ctx, "[line] token issuance rejected for channel %d: %s", channelID, body.Error)
		return "", &OAuthErrorResponse{Code: body.Error, Description: body.ErrorDescription}

	default:
		logs.CtxError(ctx, "[line] token issuance failed for channel %d: status %d", channelID, resp.StatusCode)
		return "", &OAuthStatusError{Status: resp.StatusCode}
	}
}
