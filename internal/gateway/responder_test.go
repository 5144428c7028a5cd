package gateway

import (
	"context"
	"testing"

	"github.com/midori-bot/midori/internal/reply"
	"github.com/midori-bot/midori/internal/webhook"
)

func textEvent(text string) *webhook.Event {
	return &webhook.Event{
		Type:       webhook.EventTypeMessage,
		ReplyToken: "rt",
		Message:    &webhook.Message{ID: "1", Type: webhook.MessageTypeText, Text: text},
	}
}

func singleText(t *testing.T, r *reply.Reply) string {
	t.Helper()
	if r == nil || len(r.Messages) != 1 {
		t.Fatalf("expected one message, got %+v", r)
	}
	msg, ok := r.Messages[0].(reply.Text)
	if !ok {
		t.Fatalf("expected text message, got %T", r.Messages[0])
	}
	return msg.Text
}

func TestNewResponder_DefaultsToEcho(t *testing.T) {
	h, err := newResponder(nil)
	if err != nil {
		t.Fatalf("newResponder: %v", err)
	}

	rep, err := h.HandleEvent(context.Background(), textEvent("ping"))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if got := singleText(t, rep); got != "ping" {
		t.Fatalf("echo text: got %q", got)
	}
}

func TestEchoResponder_IgnoresNonText(t *testing.T) {
	h, err := newResponder(map[string]interface{}{"type": "echo"})
	if err != nil {
		t.Fatalf("newResponder: %v", err)
	}

	sticker := &webhook.Event{
		Type:    webhook.EventTypeMessage,
		Message: &webhook.Message{ID: "1", Type: webhook.MessageTypeSticker},
	}
	if rep, err := h.HandleEvent(context.Background(), sticker); err != nil || rep != nil {
		t.Fatalf("sticker message: rep=%v err=%v", rep, err)
	}

	follow := &webhook.Event{Type: webhook.EventTypeFollow}
	if rep, err := h.HandleEvent(context.Background(), follow); err != nil || rep != nil {
		t.Fatalf("follow event: rep=%v err=%v", rep, err)
	}
}

func TestStaticResponder(t *testing.T) {
	h, err := newResponder(map[string]interface{}{
		"type":                 "static",
		"text":                 "office hours are 9-17",
		"greeting":             "welcome!",
		"disable_notification": true,
	})
	if err != nil {
		t.Fatalf("newResponder: %v", err)
	}

	rep, err := h.HandleEvent(context.Background(), textEvent("anyone there?"))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if got := singleText(t, rep); got != "office hours are 9-17" {
		t.Fatalf("static text: got %q", got)
	}
	if !rep.NotificationDisabled {
		t.Fatal("disable_notification must carry through")
	}

	rep, err = h.HandleEvent(context.Background(), &webhook.Event{Type: webhook.EventTypeFollow, ReplyToken: "rt"})
	if err != nil {
		t.Fatalf("HandleEvent follow: %v", err)
	}
	if got := singleText(t, rep); got != "welcome!" {
		t.Fatalf("greeting: got %q", got)
	}

	if rep, err := h.HandleEvent(context.Background(), &webhook.Event{Type: webhook.EventTypeUnfollow}); err != nil || rep != nil {
		t.Fatalf("unfollow must be silent: rep=%v err=%v", rep, err)
	}
}

func TestStaticResponder_GreetingFallsBackToText(t *testing.T) {
	h, err := newResponder(map[string]interface{}{"type": "static", "text": "hi"})
	if err != nil {
		t.Fatalf("newResponder: %v", err)
	}

	rep, err := h.HandleEvent(context.Background(), &webhook.Event{Type: webhook.EventTypeJoin, ReplyToken: "rt"})
	if err != nil {
		t.Fatalf("HandleEvent join: %v", err)
	}
	if got := singleText(t, rep); got != "hi" {
		t.Fatalf("fallback greeting: got %q", got)
	}
}

func TestNewResponder_Invalid(t *testing.T) {
	if _, err := newResponder(map[string]interface{}{"type": "llm"}); err == nil {
		t.Fatal("expected error for unknown responder type")
	}
	if _, err := newResponder(map[string]interface{}{"type": "static"}); err == nil {
		t.Fatal("expected error for static responder without text")
	}
}
