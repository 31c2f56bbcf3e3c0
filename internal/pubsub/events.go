package pubsub

import (
	"encoding/json"

	"gameon/internal/model"
)

const (
	EventBillCreated = "bill.created"
	EventBillDeleted = "bill.deleted"
)

// BillEvent is the message published when a bill is created or deleted.
// Floor displays use StartTime/EndTime to show session timers.
type BillEvent struct {
	Type        string `json:"type"`
	BillID      string `json:"bill_id"`
	GameZoneID  string `json:"game_zone_id,omitempty"`
	StartTime   int64  `json:"start_time,omitempty"`
	EndTime     int64  `json:"end_time,omitempty"`
	FinalAmount string `json:"final_amount,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
	ActorID     string `json:"actor_id"`
}

// NewBillEvent describes b; actorID is the user who caused the event.
func NewBillEvent(eventType string, b model.Bill, actorID string) BillEvent {
	return BillEvent{
		Type:        eventType,
		BillID:      b.ID,
		GameZoneID:  b.GameZoneID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		FinalAmount: b.FinalAmount.StringFixed(2),
		CreatedBy:   b.CreatedBy,
		ActorID:     actorID,
	}
}

// Encode marshals the event as JSON.
func (e BillEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}
