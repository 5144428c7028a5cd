package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/midori-bot/midori/internal/pkg/promx"
)

const (
	outcomeOK          = "ok"
	outcomeSignature   = "signature"
	outcomeDestination = "destination"
	outcomeBadRequest  = "bad_request"
	outcomeOAuth       = "oauth"
	outcomeReply       = "reply"
	outcomeHandler     = "handler"
)

var webhookDeliveries = promauto.With(promx.GetRegistry()).NewCounterVec(
	prometheus.CounterOpts{
		Name: "midori_webhook_deliveries_total",
		Help: "Webhook deliveries processed, by outcome.",
	},
	[]string{"outcome"},
)
