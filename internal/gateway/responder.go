package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/gg/gconv"

	"github.com/midori-bot/midori/internal/channel"
	"github.com/midori-bot/midori/internal/reply"
	"github.com/midori-bot/midori/internal/webhook"
)

// newResponder builds a channel handler from the per-channel responder
// config map. An empty map defaults to echo.
func newResponder(cfg map[string]interface{}) (channel.Handler, error) {
	kind := strings.ToLower(strings.TrimSpace(gconv.To[string](cfg["type"])))
	switch kind {
	case "", "echo":
		return &echoResponder{}, nil
	case "static":
		text := gconv.To[string](cfg["text"])
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("static responder requires text")
		}
		return &staticResponder{
			text:                text,
			greeting:            gconv.To[string](cfg["greeting"]),
			disableNotification: gconv.To[bool](cfg["disable_notification"]),
		}, nil
	default:
		return nil, fmt.Errorf("unknown responder type: %s", kind)
	}
}

// echoResponder mirrors text messages back to the sender and stays silent on
// everything else.
type echoResponder struct{}

var _ channel.Handler = (*echoResponder)(nil)

func (r *echoResponder) HandleEvent(_ context.Context, ev *webhook.Event) (*reply.Reply, error) {
	if ev.Type != webhook.EventTypeMessage || ev.Message == nil {
		return nil, nil
	}
	if ev.Message.Type != webhook.MessageTypeText {
		return nil, nil
	}
	return reply.New([]reply.Message{reply.NewText(ev.Message.Text)}, false), nil
}

// staticResponder answers messages with a fixed text and greets on follow
// and join events.
type staticResponder struct {
	text                string
	greeting            string
	disableNotification bool
}

var _ channel.Handler = (*staticResponder)(nil)

func (r *staticResponder) HandleEvent(_ context.Context, ev *webhook.Event) (*reply.Reply, error) {
	switch ev.Type {
	case webhook.EventTypeMessage:
		return reply.New([]reply.Message{reply.NewText(r.text)}, r.disableNotification), nil
	case webhook.EventTypeFollow, webhook.EventTypeJoin:
		greeting := r.greeting
		if greeting == "" {
			greeting = r.text
		}
		return reply.New([]reply.Message{reply.NewText(greeting)}, r.disableNotification), nil
	default:
		return nil, nil
	}
}
