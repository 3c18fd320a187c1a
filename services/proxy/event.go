package proxy

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// inboundEvent wraps a raw webhook payload. The proxy forwards payloads
// shaped exactly as they arrived, so the raw map is kept and only the
// designated text fields are rewritten at flush time.
type inboundEvent struct {
	raw map[string]interface{}
}

func parseEvent(body []byte) (*inboundEvent, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unparseable webhook payload: %w", err)
	}
	return &inboundEvent{raw: raw}, nil
}

func (e *inboundEvent) kind() string {
	return stringField(e.raw, "event")
}

func (e *inboundEvent) messageType() string {
	return stringField(e.raw, "message_type")
}

func (e *inboundEvent) content() string {
	return stringField(e.raw, "content")
}

// coalescable: only plain incoming text messages enter the debounce
// machine; everything else bypasses it.
func (e *inboundEvent) coalescable() bool {
	return e.kind() == "message_created" && e.messageType() == "incoming"
}

func (e *inboundEvent) conversationID() string {
	conv, ok := e.raw["conversation"].(map[string]interface{})
	if !ok {
		return ""
	}
	switch id := conv["id"].(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	default:
		return ""
	}
}

// sender extracts the contact fields used by the side tasks.
func (e *inboundEvent) sender() Contact {
	s, ok := e.raw["sender"].(map[string]interface{})
	if !ok {
		return Contact{}
	}
	return Contact{
		Name:  stringField(s, "name"),
		Phone: stringField(s, "phone_number"),
		Email: stringField(s, "email"),
	}
}

// setConsolidatedContent overwrites the payload's content field and the
// first nested conversation message's content with the consolidated text.
func (e *inboundEvent) setConsolidatedContent(text string) {
	e.raw["content"] = text
	conv, ok := e.raw["conversation"].(map[string]interface{})
	if !ok {
		return
	}
	msgs, ok := conv["messages"].([]interface{})
	if !ok || len(msgs) == 0 {
		return
	}
	if first, ok := msgs[0].(map[string]interface{}); ok {
		first["content"] = text
	}
}

func (e *inboundEvent) payload() map[string]interface{} {
	return e.raw
}

func stringField(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}
