package webhook

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseRequestBody_MessageEvent(t *testing.T) {
	raw := []byte(`{
		"destination": "U0123456789abcdef",
		"events": [
			{
				"type": "message",
				"replyToken": "reply-token-1",
				"timestamp": 1462629479859,
				"source": {"type": "user", "userId": "U4af4980629"},
				"message": {"id": "325708", "type": "text", "text": "Hello, world"}
			}
		]
	}`)

	body, err := ParseRequestBody(raw)
	if err != nil {
		t.Fatalf("ParseRequestBody: %v", err)
	}

	if body.Destination != "U0123456789abcdef" {
		t.Fatalf("destination: got %q", body.Destination)
	}
	if string(body.Src) != string(raw) {
		t.Fatal("Src must retain the exact raw bytes")
	}

	want := Event{
		Type:       EventTypeMessage,
		ReplyToken: "reply-token-1",
		Timestamp:  1462629479859,
		Source:     Source{Type: SourceTypeUser, UserID: "U4af4980629"},
		Message:    &Message{ID: "325708", Type: MessageTypeText, Text: "Hello, world"},
	}
	if diff := cmp.Diff(want, body.Events[0], cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}
	if !body.Events[0].HasReplyToken() {
		t.Fatal("message event should carry a reply token")
	}
}

func TestParseRequestBody_EventVariants(t *testing.T) {
	raw := []byte(`{
		"destination": "U0",
		"events": [
			{"type": "unfollow", "timestamp": 1, "source": {"type": "user", "userId": "U1"}},
			{"type": "memberJoined", "replyToken": "rt", "timestamp": 2,
			 "source": {"type": "group", "groupId": "G1"},
			 "joined": {"members": [{"type": "user", "userId": "U2"}]}},
			{"type": "postback", "replyToken": "rt2", "timestamp": 3,
			 "source": {"type": "user", "userId": "U3"},
			 "postback": {"data": "action=buy", "params": {"datetime": "2017-12-25T01:00"}}},
			{"type": "beacon", "replyToken": "rt3", "timestamp": 4,
			 "source": {"type": "user", "userId": "U4"},
			 "beacon": {"type": "enter", "hwid": "d41d8cd98f", "dm": "deadbeef"}},
			{"type": "things", "replyToken": "rt4", "timestamp": 5,
			 "source": {"type": "user", "userId": "U5"},
			 "things": {"type": "link", "deviceId": "t2c449c9d1"}}
		]
	}`)

	body, err := ParseRequestBody(raw)
	if err != nil {
		t.Fatalf("ParseRequestBody: %v", err)
	}
	if len(body.Events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(body.Events))
	}

	if body.Events[0].HasReplyToken() {
		t.Fatal("unfollow events carry no reply token")
	}

	joined := body.Events[1].Joined
	if joined == nil || len(joined.Members) != 1 || joined.Members[0].UserID != "U2" {
		t.Fatalf("memberJoined payload: %+v", joined)
	}

	pb := body.Events[2].Postback
	if pb == nil || pb.Data != "action=buy" || pb.Params == nil || pb.Params.Datetime != "2017-12-25T01:00" {
		t.Fatalf("postback payload: %+v", pb)
	}

	bc := body.Events[3].Beacon
	if bc == nil || bc.Type != BeaconTypeEnter || bc.Hwid != "d41d8cd98f" || bc.DM != "deadbeef" {
		t.Fatalf("beacon payload: %+v", bc)
	}

	th := body.Events[4].Things
	if th == nil || th.Type != ThingsTypeLink || th.DeviceID != "t2c449c9d1" {
		t.Fatalf("things payload: %+v", th)
	}
}

func TestParseRequestBody_ForwardCompatible(t *testing.T) {
	// Unknown fields and unknown event types must not fail the parse.
	raw := []byte(`{
		"destination": "U0",
		"someFutureField": {"nested": true},
		"events": [
			{"type": "videoPlayComplete", "replyToken": "rt", "timestamp": 1,
			 "source": {"type": "user", "userId": "U1"},
			 "videoPlayComplete": {"trackingId": "x"}}
		]
	}`)

	body, err := ParseRequestBody(raw)
	if err != nil {
		t.Fatalf("ParseRequestBody: %v", err)
	}
	ev := body.Events[0]
	if ev.Type != EventType("videoPlayComplete") {
		t.Fatalf("unknown event type must be preserved, got %q", ev.Type)
	}
	if ev.ReplyToken != "rt" || ev.Source.UserID != "U1" {
		t.Fatal("common bundle must survive unknown event types")
	}
}

func TestParseRequestBody_Malformed(t *testing.T) {
	if _, err := ParseRequestBody([]byte(`{"destination":`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
