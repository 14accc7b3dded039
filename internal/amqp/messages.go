package amqp

import (
	"encoding/json"
	"time"
)

// OrderSubmittedMessage announces one sales order accepted by the ERP.
// It carries just the identifying fields; the worker records them as an
// audit event without fetching the document back.
type OrderSubmittedMessage struct {
	DocEntry    int64     `json:"docEntry"`
	CardCode    string    `json:"cardCode"`
	Total       string    `json:"total"` // decimal string, exact
	SubmittedBy string    `json:"submittedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewOrderSubmittedMessage builds a message stamped with the current time.
func NewOrderSubmittedMessage(docEntry int64, cardCode, total, submittedBy string) *OrderSubmittedMessage {
	return &OrderSubmittedMessage{
		DocEntry:    docEntry,
		CardCode:    cardCode,
		Total:       total,
		SubmittedBy: submittedBy,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *OrderSubmittedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// OrderSubmittedMessageFromJSON parses a message from JSON bytes.
func OrderSubmittedMessageFromJSON(data []byte) (*OrderSubmittedMessage, error) {
	var msg OrderSubmittedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
