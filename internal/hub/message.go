package hub

import (
	"time"

	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
)

// MessageTypeRegions is the only message the hub pushes to subscribers
const MessageTypeRegions = "regions"

// Message is sent to websocket subscribers of a view
type Message struct {
	Type      string            `json:"type"`
	View      string            `json:"view"`
	Regions   contracts.Regions `json:"regions"`
	Timestamp time.Time         `json:"timestamp"`
}

func regionsMessage(view string, regions contracts.Regions) Message {
	return Message{
		Type:      MessageTypeRegions,
		View:      view,
		Regions:   regions,
		Timestamp: time.Now(),
	}
}
