package amqp

import (
	"encoding/json"
	"time"
)

// PurchaseSyncMessage asks the worker to export one purchase to the
// spreadsheet. It carries only the id; the worker fetches the full record
// from storage so the message never goes stale.
type PurchaseSyncMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPurchaseSyncMessage creates a sync message for a stored purchase.
func NewPurchaseSyncMessage(id string) *PurchaseSyncMessage {
	return &PurchaseSyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *PurchaseSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PurchaseSyncMessageFromJSON creates a message from JSON bytes.
func PurchaseSyncMessageFromJSON(data []byte) (*PurchaseSyncMessage, error) {
	var msg PurchaseSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
