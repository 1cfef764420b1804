package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"accountbook/internal/core"
)

// EventKind names what happened to a transaction.
type EventKind string

const (
	EventCreated EventKind = "transaction.created"
	EventUpdated EventKind = "transaction.updated"
	EventDeleted EventKind = "transaction.deleted"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventCreated, EventUpdated, EventDeleted:
		return true
	}
	return false
}

// TransactionSnapshot is the wire form of a transaction.
type TransactionSnapshot struct {
	ID       int64  `json:"id"`
	Owner    int64  `json:"owner"`
	Date     string `json:"date"`
	Day      string `json:"day"`
	Title    string `json:"title"`
	Amount   int64  `json:"amount"`
	Flow     string `json:"flow"`
	Category string `json:"category"`
}

func SnapshotOf(t core.Transaction) TransactionSnapshot {
	return TransactionSnapshot{
		ID:       t.ID,
		Owner:    int64(t.Owner),
		Date:     string(t.Date),
		Day:      t.DayLabel,
		Title:    t.Title,
		Amount:   t.Amount,
		Flow:     string(t.Flow),
		Category: t.Category,
	}
}

func (s TransactionSnapshot) Transaction() core.Transaction {
	return core.Transaction{
		ID:       s.ID,
		Owner:    core.OwnerID(s.Owner),
		Date:     core.Date(s.Date),
		DayLabel: s.Day,
		Title:    s.Title,
		Amount:   s.Amount,
		Flow:     core.FlowType(s.Flow),
		Category: s.Category,
	}
}

// TransactionEventMessage carries the full row so consumers never read the
// producer's database. Deletes carry the row as it was before removal.
type TransactionEventMessage struct {
	Kind      EventKind           `json:"kind"`
	ID        int64               `json:"id"`
	Owner     int64               `json:"owner"`
	Snapshot  TransactionSnapshot `json:"snapshot"`
	Timestamp time.Time           `json:"timestamp"`
}

func NewTransactionEvent(kind EventKind, t core.Transaction) *TransactionEventMessage {
	return &TransactionEventMessage{
		Kind:      kind,
		ID:        t.ID,
		Owner:     int64(t.Owner),
		Snapshot:  SnapshotOf(t),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON decodes a message and rejects unknown kinds.
func TransactionEventFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Kind.Valid() {
		return nil, fmt.Errorf("unknown event kind %q", msg.Kind)
	}
	return &msg, nil
}
