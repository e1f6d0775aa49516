package violations

import (
	"time"
)

const (
	LayerKeyword = "l1"
	LayerPrompt  = "l2"
	LayerStream  = "l3"
)

// Event is one recorded policy violation. Text carries only the tail of the
// offending content so the audit trail never stores full conversations.
type Event struct {
	RequestID string    `json:"request_id"`
	Layer     string    `json:"layer"`
	Keyword   string    `json:"keyword,omitempty"`
	Verdict   string    `json:"verdict,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// maxTextTail bounds how much offending text an event carries.
const maxTextTail = 60

// Tail returns at most n trailing runes of s.
func Tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func NewEvent(requestID string, layer string, keyword string, verdict string, text string) Event {
	return Event{
		RequestID: requestID,
		Layer:     layer,
		Keyword:   keyword,
		Verdict:   verdict,
		Text:      Tail(text, maxTextTail),
		Timestamp: time.Now().UTC(),
	}
}
