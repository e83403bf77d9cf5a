package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Actions carried by a ChangeMessage.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entities carried by a ChangeMessage.
const (
	EntityTransaction = "transaction"
	EntityBudget      = "budget"
)

// ChangeMessage announces that a ledger record changed. It carries only the
// identity of the change; consumers fetch current state from the store.
type ChangeMessage struct {
	Entity    string    `json:"entity"`
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage creates a change message stamped with the current time.
func NewChangeMessage(entity, id, action string) *ChangeMessage {
	return &ChangeMessage{
		Entity:    entity,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Entity == "" || msg.Action == "" {
		return nil, fmt.Errorf("change message missing entity or action")
	}
	return &msg, nil
}
