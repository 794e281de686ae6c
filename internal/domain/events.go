package domain

import (
	"encoding/json"
	"fmt"
)

// Event patterns exchanged with the kitchen service.
const (
	EventOrderDispatched    = "order_dispatched"
	EventOrderStatusChanged = "order_status_changed"
)

// Envelope is the wire shape of every broker message: a pattern naming the
// event plus the raw payload. The kitchen side speaks the same format.
type Envelope struct {
	Pattern string          `json:"pattern"`
	Data    json.RawMessage `json:"data"`
}

// NewEnvelope marshals payload into a ready-to-publish message body.
func NewEnvelope(pattern string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", pattern, err)
	}
	return json.Marshal(Envelope{Pattern: pattern, Data: data})
}

// StatusUpdateCommand instructs a status change on one order. A nil
// RecipeName leaves the stored recipe untouched.
type StatusUpdateCommand struct {
	ID         string  `json:"id"`
	StatusID   int     `json:"statusId"`
	RecipeName *string `json:"recipeName,omitempty"`
}
