// Package gateway runs the HTTP front of the webhook adapter: it terminates
// inbound deliveries, hands them to the messaging pipeline, and maps the
// pipeline's error taxonomy onto HTTP statuses.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	hzServer "github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	hzprom "github.com/hertz-contrib/monitor-prometheus"

	"github.com/midori-bot/midori/internal/channel"
	"github.com/midori-bot/midori/internal/config"
	"github.com/midori-bot/midori/internal/line"
	"github.com/midori-bot/midori/internal/messaging"
	"github.com/midori-bot/midori/internal/pkg/logs"
	"github.com/midori-bot/midori/internal/pkg/promx"
)

// WebhookPath is where the platform posts deliveries.
const WebhookPath = "/api/v1/line/webhook"

type Gateway struct {
	api        *messaging.API
	httpServer *hzServer.Hertz

	runCtx    context.Context
	runCancel context.CancelFunc

	stopOnce sync.Once
	stopErr  error
}

// New wires the messaging pipeline from config and builds the HTTP server.
func New(cfg *config.Config) (*Gateway, error) {
	client := line.NewClient(line.WithBaseURL(cfg.Platform.BaseURL))
	api := messaging.New(client, client)

	enabled := 0
	for id, chCfg := range cfg.Channels {
		chCfg.ID = id
		if !chCfg.Enabled {
			logs.Info("[gateway] channel #%s is disabled, skipping", id)
			continue
		}

		responder, err := newResponder(chCfg.Responder)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", id, err)
		}

		api.AddChannel(channel.New(chCfg.ChannelID, chCfg.Destination, chCfg.Secret, responder))
		logs.Info("[gateway] registered channel #%s (id=%d)", id, chCfg.ChannelID)
		enabled++
	}
	if enabled == 0 {
		return nil, errors.New("no enabled channels configured")
	}

	hlog.SetLogger(logs.NewHlogLogger(logs.DefaultLogger()))

	hzSvr := hzServer.New(
		hzServer.WithHostPorts(cfg.Gateway.Bind),
		hzServer.WithExitWaitTime(5*time.Second),
		hzServer.WithTracer(hzprom.NewServerTracer(
			cfg.Gateway.MetricsBind, "/metrics",
			hzprom.WithRegistry(promx.GetRegistry()),
		)),
	)

	gw := &Gateway{
		api:        api,
		httpServer: hzSvr,
	}
	gw.registerRoutes()
	return gw, nil
}

func (gw *Gateway) registerRoutes() {
	gw.httpServer.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
	gw.httpServer.POST(WebhookPath, gw.handleWebhook)
}

func (gw *Gateway) Start(ctx context.Context) error {
	gw.runCtx, gw.runCancel = context.WithCancel(ctx)
	go gw.httpServer.Spin()
	return nil
}

func (gw *Gateway) Stop(ctx context.Context) error {
	gw.stopOnce.Do(func() {
		if gw.runCancel != nil {
			gw.runCancel()
		}
		if err := gw.httpServer.Shutdown(ctx); err != nil {
			logs.CtxWarn(ctx, "[gateway] shutdown http server error: %v", err)
		}
		logs.CtxInfo(ctx, "[gateway] stopped")
	})
	return gw.stopErr
}

// handleWebhook terminates one delivery. The response body never says which
// part of authentication failed.
func (gw *Gateway) handleWebhook(ctx context.Context, c *app.RequestContext) {
	ctx = logs.SetLogID(ctx, logs.NewLogID())

	digest := c.GetHeader(messaging.SignatureHeader)
	if len(digest) == 0 {
		webhookDeliveries.WithLabelValues(outcomeSignature).Inc()
		logs.CtxWarn(ctx, "[gateway] delivery without signature header rejected")
		c.JSON(consts.StatusUnauthorized, utils.H{"error": "unauthorized"})
		return
	}

	if err := gw.api.HandleWebhook(ctx, c.Request.Body(), digest); err != nil {
		status, outcome := classifyError(err)
		webhookDeliveries.WithLabelValues(outcome).Inc()
		logs.CtxError(ctx, "[gateway] webhook delivery rejected (%s): %v", outcome, err)
		c.JSON(status, utils.H{"error": outcome})
		return
	}

	webhookDeliveries.WithLabelValues(outcomeOK).Inc()
	c.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

// classifyError maps the pipeline error taxonomy to an HTTP status and a
// metric outcome label.
func classifyError(err error) (int, string) {
	var (
		sigErr      *messaging.SignatureError
		destErr     *channel.DestinationError
		bodyErr     *messaging.RequestBodyError
		oauthResp   *line.OAuthErrorResponse
		oauthStatus *line.OAuthStatusError
		replyStatus *line.ReplyStatusError
	)
	switch {
	case errors.As(err, &sigErr):
		return consts.StatusUnauthorized, outcomeSignature
	case errors.As(err, &destErr):
		return consts.StatusNotFound, outcomeDestination
	case errors.As(err, &bodyErr):
		return consts.StatusBadRequest, outcomeBadRequest
	case errors.As(err, &oauthResp), errors.As(err, &oauthStatus):
		return consts.StatusBadGateway, outcomeOAuth
	case errors.As(err, &replyStatus):
		return consts.StatusBadGateway, outcomeReply
	default:
		return consts.StatusInternalServerError, outcomeHandler
	}
}
