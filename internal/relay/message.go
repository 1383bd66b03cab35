package relay

import (
	"encoding/json"
	"fmt"

	"github.com/mizutori/nosread/pkg/domain"
)

// MessageType identifies the variant of an inbound relay frame.
type MessageType string

const (
	MessageEvent   MessageType = "EVENT"
	MessageEOSE    MessageType = "EOSE"
	MessageOK      MessageType = "OK"
	MessageNotice  MessageType = "NOTICE"
	MessageUnknown MessageType = "UNKNOWN"
)

// Message is a parsed inbound relay frame. Only the fields relevant
// to the variant in Type are populated.
type Message struct {
	Type           MessageType
	SubscriptionID string             // EVENT, EOSE
	Event          *domain.NostrEvent // EVENT
	EventID        string             // OK
	Accepted       bool               // OK
	Text           string             // OK, NOTICE
}

// ParseMessage decodes a raw text frame into a Message. Frames with
// an unrecognized first element yield MessageUnknown without error;
// frames that are not a JSON array, are empty, or carry a malformed
// payload for a known type return an error. Parse errors never close
// the session; callers log and drop the frame.
func ParseMessage(data []byte) (Message, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, fmt.Errorf("frame is not a JSON array: %w", err)
	}
	if len(raw) == 0 {
		return Message{}, fmt.Errorf("frame is an empty array")
	}

	var tag string
	if err := json.Unmarshal(raw[0], &tag); err != nil {
		return Message{}, fmt.Errorf("frame tag is not a string: %w", err)
	}

	msg := Message{Type: MessageType(tag)}
	switch msg.Type {
	case MessageEvent:
		if len(raw) < 3 {
			return Message{}, fmt.Errorf("EVENT frame has %d elements, want 3", len(raw))
		}
		if err := json.Unmarshal(raw[1], &msg.SubscriptionID); err != nil {
			return Message{}, fmt.Errorf("EVENT subscription id: %w", err)
		}
		msg.Event = &domain.NostrEvent{}
		if err := json.Unmarshal(raw[2], msg.Event); err != nil {
			return Message{}, fmt.Errorf("EVENT payload: %w", err)
		}

	case MessageEOSE:
		if len(raw) < 2 {
			return Message{}, fmt.Errorf("EOSE frame has %d elements, want 2", len(raw))
		}
		if err := json.Unmarshal(raw[1], &msg.SubscriptionID); err != nil {
			return Message{}, fmt.Errorf("EOSE subscription id: %w", err)
		}

	case MessageOK:
		if len(raw) < 4 {
			return Message{}, fmt.Errorf("OK frame has %d elements, want 4", len(raw))
		}
		if err := json.Unmarshal(raw[1], &msg.EventID); err != nil {
			return Message{}, fmt.Errorf("OK event id: %w", err)
		}
		if err := json.Unmarshal(raw[2], &msg.Accepted); err != nil {
			return Message{}, fmt.Errorf("OK accepted flag: %w", err)
		}
		if err := json.Unmarshal(raw[3], &msg.Text); err != nil {
			return Message{}, fmt.Errorf("OK message: %w", err)
		}

	case MessageNotice:
		if len(raw) < 2 {
			return Message{}, fmt.Errorf("NOTICE frame has %d elements, want 2", len(raw))
		}
		if err := json.Unmarshal(raw[1], &msg.Text); err != nil {
			return Message{}, fmt.Errorf("NOTICE message: %w", err)
		}

	default:
		msg.Type = MessageUnknown
	}

	return msg, nil
}

// EncodeReq builds an outbound ["REQ", id, filter] frame.
func EncodeReq(subscriptionID string, filter domain.Filter) ([]byte, error) {
	return json.Marshal([]interface{}{"REQ", subscriptionID, filter.Encode()})
}

// EncodeClose builds an outbound ["CLOSE", id] frame.
func EncodeClose(subscriptionID string) ([]byte, error) {
	return json.Marshal([]interface{}{"CLOSE", subscriptionID})
}
