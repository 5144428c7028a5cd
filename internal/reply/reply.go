// Package reply models the outbound reply payload a handler produces in
// response to a webhook event.
package reply

import (
	"github.com/bytedance/sonic"
)

// Reply is a batch of messages sent back against one event's reply token.
// Handlers construct a Reply with an empty token; the dispatch pipeline
// stitches in the originating event's reply token before sending. A Reply
// must never reach the wire with an empty token.
type Reply struct {
	token                string
	Messages             []Message
	NotificationDisabled bool
}

// New builds a Reply with the token left unset.
func New(messages []Message, notificationDisabled bool) *Reply {
	return &Reply{
		Messages:             messages,
		NotificationDisabled: notificationDisabled,
	}
}

// SetToken stitches in the reply token taken from the originating event.
func (r *Reply) SetToken(token string) {
	r.token = token
}

// Token returns the stitched reply token, empty if not yet set.
func (r *Reply) Token() string {
	return r.token
}

// wireReply is the platform reply schema.
type wireReply struct {
	ReplyToken           string    `json:"replyToken"`
	Messages             []Message `json:"messages"`
	NotificationDisabled bool      `json:"notificationDisabled"`
}

// MarshalJSON serializes the Reply in the platform reply schema, including
// the stitched token.
func (r *Reply) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(wireReply{
		ReplyToken:           r.token,
		Messages:             r.Messages,
		NotificationDisabled: r.NotificationDisabled,
	})
}

// Message is one outbound reply message. Concrete kinds are constructed via
// NewText, NewSticker, and NewImage so the wire type tag is always present.
type Message interface {
	isReplyMessage()
}

// Text is a plain text reply message.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewText(text string) Text {
	return Text{Type: "text", Text: text}
}

func (Text) isReplyMessage() {}

// Sticker is a sticker reply message.
type Sticker struct {
	Type      string `json:"type"`
	PackageID string `json:"packageId"`
	StickerID string `json:"stickerId"`
}

func NewSticker(packageID, stickerID string) Sticker {
	return Sticker{Type: "sticker", PackageID: packageID, StickerID: stickerID}
}

func (Sticker) isReplyMessage() {}

// Image is an image reply message referencing hosted content.
type Image struct {
	Type               string `json:"type"`
	OriginalContentURL string `json:"originalContentUrl"`
	PreviewImageURL    string `json:"previewImageUrl"`
}

func NewImage(originalContentURL, previewImageURL string) Image {
	return Image{Type: "image", OriginalContentURL: originalContentURL, PreviewImageURL: previewImageURL}
}

func (Image) isReplyMessage() {}
