package amqp

import (
	"encoding/json"
	"time"
)

// SeedEventType is the routing-independent name of the seed notification.
const SeedEventType = "dataset.seeded"

// SeedEvent announces that the transaction store was loaded from the dataset.
type SeedEvent struct {
	Type      string    `json:"type"`
	Records   int       `json:"records"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSeedEvent(records int, source string) *SeedEvent {
	return &SeedEvent{
		Type:      SeedEventType,
		Records:   records,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}

func (m *SeedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SeedEventFromJSON(data []byte) (*SeedEvent, error) {
	var msg SeedEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
