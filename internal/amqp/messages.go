package amqp

import (
	"encoding/json"
	"time"
)

// Reconciliation operations announced on the event queue.
const (
	OpImport  = "import"
	OpRestore = "restore"
	OpBackup  = "backup"
)

// ReconEventMessage announces a completed reconciliation operation. It is
// intentionally light: consumers that need the rows fetch them themselves.
type ReconEventMessage struct {
	Operation string         `json:"operation"`
	OwnerID   string         `json:"ownerId"`
	Counts    map[string]int `json:"counts,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewReconEventMessage creates an event for one owner and operation.
func NewReconEventMessage(operation, ownerID string, counts map[string]int) *ReconEventMessage {
	return &ReconEventMessage{
		Operation: operation,
		OwnerID:   ownerID,
		Counts:    counts,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReconEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReconEventMessageFromJSON creates a message from JSON bytes.
func ReconEventMessageFromJSON(data []byte) (*ReconEventMessage, error) {
	var msg ReconEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
