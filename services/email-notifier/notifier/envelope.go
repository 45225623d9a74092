package notifier

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/yashrajoria/shopping-backend/services/email-notifier/models"
)

// snsEnvelope is the SNS notification wrapper SQS delivers when the queue is subscribed to a topic.
type snsEnvelope struct {
	Message *string `json:"Message"`
}

// ParseEvent unwraps an SNS envelope and decodes the inner order event. A body
// without a Message field is decoded as the event itself.
func ParseEvent(body string) (*models.OrderEvent, error) {
	var env snsEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, fmt.Errorf("invalid message body: %w", err)
	}

	payload := body
	if env.Message != nil {
		payload = *env.Message
	}

	var evt models.OrderEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return nil, fmt.Errorf("invalid order event: %w", err)
	}
	return &evt, nil
}

// Subject is "Order #<id> - <Status>" with the status title-cased word by word.
func Subject(evt *models.OrderEvent) string {
	return fmt.Sprintf("Order #%s - %s", evt.OrderID, titleCase(evt.StatusOrDefault()))
}

// titleCase upper-cases the first letter of every run of letters and lower-cases
// the rest, so "out_for_delivery" becomes "Out_For_Delivery".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
