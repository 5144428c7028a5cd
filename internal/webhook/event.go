// Package webhook defines the typed model for one webhook delivery: a
// destination identifier plus an ordered sequence of events. The JSON schema
// is an external versioned contract, so decoding tolerates unknown fields and
// unknown event types rather than failing the whole parse.
package webhook

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// EventType tags the kind of a webhook event.
type EventType string

const (
	EventTypeMessage      EventType = "message"
	EventTypeFollow       EventType = "follow"
	EventTypeUnfollow     EventType = "unfollow"
	EventTypeJoin         EventType = "join"
	EventTypeLeave        EventType = "leave"
	EventTypeMemberJoined EventType = "memberJoined"
	EventTypeMemberLeft   EventType = "memberLeft"
	EventTypePostback     EventType = "postback"
	EventTypeBeacon       EventType = "beacon"
	EventTypeAccountLink  EventType = "accountLink"
	EventTypeThings       EventType = "things"
)

// RequestBody is one parsed webhook delivery. Src retains the exact bytes
// received because the signature must be verified against the original
// payload; re-serialization is not guaranteed byte-identical.
type RequestBody struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`

	Src []byte `json:"-"`
}

// ParseRequestBody decodes raw into a RequestBody and captures the original
// bytes in Src.
func ParseRequestBody(raw []byte) (*RequestBody, error) {
	var body RequestBody
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}
	body.Src = append([]byte(nil), raw...)
	return &body, nil
}

// Event is one webhook event. Only the payload field matching Type is set;
// the common bundle (ReplyToken, Timestamp, Source) is present on every kind.
// ReplyToken is empty for event kinds that cannot be replied to.
type Event struct {
	Type       EventType `json:"type"`
	ReplyToken string    `json:"replyToken,omitempty"`
	Timestamp  int64     `json:"timestamp"`
	Source     Source    `json:"source"`

	Message  *Message     `json:"message,omitempty"`
	Joined   *Members     `json:"joined,omitempty"`
	Left     *Members     `json:"left,omitempty"`
	Postback *Postback    `json:"postback,omitempty"`
	Beacon   *Beacon      `json:"beacon,omitempty"`
	Link     *AccountLink `json:"link,omitempty"`
	Things   *Things      `json:"things,omitempty"`
}

// HasReplyToken reports whether this event can be replied to.
func (e *Event) HasReplyToken() bool {
	return e.ReplyToken != ""
}

// SourceType tags where an event originated.
type SourceType string

const (
	SourceTypeUser  SourceType = "user"
	SourceTypeGroup SourceType = "group"
	SourceTypeRoom  SourceType = "room"
)

// Source describes the sender of an event. UserID may be empty for group and
// room sources when the platform cannot identify the member.
type Source struct {
	Type    SourceType `json:"type"`
	UserID  string     `json:"userId,omitempty"`
	GroupID string     `json:"groupId,omitempty"`
	RoomID  string     `json:"roomId,omitempty"`
}

// MessageType tags the sub-variant of a message event.
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeVideo    MessageType = "video"
	MessageTypeAudio    MessageType = "audio"
	MessageTypeFile     MessageType = "file"
	MessageTypeLocation MessageType = "location"
	MessageTypeSticker  MessageType = "sticker"
)

// Message carries the content of a message event. Fields beyond ID and Type
// are populated per sub-variant.
type Message struct {
	ID   string      `json:"id"`
	Type MessageType `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// image / video / audio
	Duration        int64            `json:"duration,omitempty"`
	ContentProvider *ContentProvider `json:"contentProvider,omitempty"`

	// file
	FileName string `json:"fileName,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`

	// location
	Title     string  `json:"title,omitempty"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	// sticker
	PackageID string `json:"packageId,omitempty"`
	StickerID string `json:"stickerId,omitempty"`
}

// ContentProvider says where binary message content is hosted.
type ContentProvider struct {
	Type               string `json:"type"` // "line" or "external"
	OriginalContentURL string `json:"originalContentUrl,omitempty"`
	PreviewImageURL    string `json:"previewImageUrl,omitempty"`
}

// Members lists the sources involved in memberJoined / memberLeft events.
type Members struct {
	Members []Source `json:"members"`
}

// Postback carries the data of a postback action plus the optional picker
// params.
type Postback struct {
	Data   string          `json:"data"`
	Params *PostbackParams `json:"params,omitempty"`
}

// PostbackParams holds the datetime-picker selection; exactly one field is
// set depending on the picker mode.
type PostbackParams struct {
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Datetime string `json:"datetime,omitempty"`
}

// BeaconType tags a beacon event sub-variant.
type BeaconType string

const (
	BeaconTypeEnter  BeaconType = "enter"
	BeaconTypeLeave  BeaconType = "leave"
	BeaconTypeBanner BeaconType = "banner"
)

// Beacon carries the hardware ID of the beacon that triggered the event and
// the optional device message.
type Beacon struct {
	Type BeaconType `json:"type"`
	Hwid string     `json:"hwid"`
	DM   string     `json:"dm,omitempty"`
}

// AccountLink reports the outcome of an account-link flow.
type AccountLink struct {
	Result string `json:"result"` // "ok" or "failed"
	Nonce  string `json:"nonce"`
}

// ThingsType tags a device event sub-variant.
type ThingsType string

const (
	ThingsTypeLink   ThingsType = "link"
	ThingsTypeUnlink ThingsType = "unlink"
)

// Things carries a device link or unlink notification.
type Things struct {
	Type     ThingsType `json:"type"`
	DeviceID string     `json:"deviceId"`
}
